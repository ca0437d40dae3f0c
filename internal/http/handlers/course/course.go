// Package course contains all HTTP handlers related to the Course resource.
//
// Handlers follow the closure / factory pattern: each exported function
// takes its dependencies once, at route registration, and returns the
// http.HandlerFunc that runs on every request.
//
//	r.Get("/courses/", course.GetList(storage))
//
// Handlers keep no state between requests; the storage is the only shared
// resource.
package course

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/aanand-mishra/courses-api/internal/types"
	"github.com/aanand-mishra/courses-api/internal/utils/request"
	"github.com/aanand-mishra/courses-api/internal/utils/response"
	"github.com/aanand-mishra/courses-api/internal/utils/validate"
)

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /courses/
// Returns every course in creation order, optionally filtered.
//
// Query parameters (exact match, combinable):
//
//	?id=3        only the course with that id
//	?name=python only courses named exactly "python"
//
// Success response (200 OK):
//
//	[ { "id": 1, "name": "python", "students": [2, 5] } ]
//
// Returns [] (not null) when nothing matches.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.CourseStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := request.ListFilter(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("listing courses", slog.String("query", r.URL.RawQuery))

		courses, err := storage.GetCourses(r.Context(), filter)
		if err != nil {
			slog.Error("error listing courses", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, courses)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /courses/
//
// Request body (JSON):
//
//	{ "name": "python", "students": [] }
//
// Success response (201 Created): the stored course, with its new id.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, failed validation,
//	                   or a student id that does not exist
//	5xx              — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.CourseStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a course")

		var course types.Course
		if err := request.DecodeJSON(r, &course); err != nil {
			response.Error(w, err)
			return
		}

		if err := validate.Struct(course); err != nil {
			response.Error(w, err)
			return
		}

		created, err := storage.CreateCourse(r.Context(), course)
		if err != nil {
			slog.Error("error creating course", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("course created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetByID handles GET /courses/{id}/.
func GetByID(storage storage.CourseStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("getting a course", slog.Int64("id", id))

		course, err := storage.GetCourseByID(r.Context(), id)
		if err != nil {
			slog.Error("error getting course", slog.Int64("id", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, course)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /courses/{id}/
// Replaces the name and the whole student set. A missing "students" key
// means no students.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.CourseStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("updating a course", slog.Int64("id", id))

		var course types.Course
		if err := request.DecodeJSON(r, &course); err != nil {
			response.Error(w, err)
			return
		}

		if err := validate.Struct(course); err != nil {
			response.Error(w, err)
			return
		}

		updated, err := storage.UpdateCourseByID(r.Context(), id, course)
		if err != nil {
			slog.Error("error updating course", slog.Int64("id", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("course updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Patch handles PATCH /courses/{id}/
// Changes only the fields present in the body.
//
// Request body (JSON), any subset of:
//
//	{ "name": "python", "students": [1, 2] }
//
// Success response (200 OK): the course as now stored.
// ─────────────────────────────────────────────────────────────────────────────
func Patch(storage storage.CourseStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("patching a course", slog.Int64("id", id))

		var patch types.CoursePatch
		if err := request.DecodeJSON(r, &patch); err != nil {
			response.Error(w, err)
			return
		}

		if err := validate.Struct(patch); err != nil {
			response.Error(w, err)
			return
		}

		updated, err := storage.PatchCourseByID(r.Context(), id, patch)
		if err != nil {
			slog.Error("error patching course", slog.Int64("id", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("course patched", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /courses/{id}/
// Permanently removes the course and its student associations.
//
// Success response: 204 No Content, empty body.
// Unknown id: 404.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.CourseStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("deleting a course", slog.Int64("id", id))

		if err := storage.DeleteCourseByID(r.Context(), id); err != nil {
			slog.Error("error deleting course", slog.Int64("id", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("course deleted", slog.Int64("id", id))
		response.NoContent(w)
	}
}
