// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
//	r.Post("/students/", student.New(storage))
//	//                           ^^^^^^^^^^^^
//	//        New(storage) is called ONCE at startup. It returns a handler
//	//        func which is called on EVERY incoming request.
package student

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
// New handles POST /students/
// Creates a new student from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Rakesh", "birth_date": "1990-04-12" }
//
// Success response (201 Created): the stored student.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	5xx              — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var student types.Student
		if err := request.DecodeJSON(r, &student); err != nil {
			response.Error(w, err)
			return
		}

		if err := validate.Struct(student); err != nil {
			response.Error(w, err)
			return
		}

		created, err := storage.CreateStudent(r.Context(), student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}/
//
// Error responses:
//
//	400 Bad Request  — id is not a valid integer
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			slog.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students/
// Returns a JSON array of students in creation order, filtered by the
// optional ?id= and ?name= query parameters.
//
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := request.ListFilter(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("getting students", slog.String("query", r.URL.RawQuery))

		students, err := storage.GetStudents(r.Context(), filter)
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}/
// Replaces ALL fields of an existing student; the body follows the same
// rules as creation.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("updating a student", slog.Int64("id", id))

		var student types.Student
		if err := request.DecodeJSON(r, &student); err != nil {
			response.Error(w, err)
			return
		}

		if err := validate.Struct(student); err != nil {
			response.Error(w, err)
			return
		}

		updated, err := storage.UpdateStudentByID(r.Context(), id, student)
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Patch handles PATCH /students/{id}/ and changes only the fields present
// in the body.
func Patch(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("patching a student", slog.Int64("id", id))

		var patch types.StudentPatch
		if err := request.DecodeJSON(r, &patch); err != nil {
			response.Error(w, err)
			return
		}

		if err := validate.Struct(patch); err != nil {
			response.Error(w, err)
			return
		}

		updated, err := storage.PatchStudentByID(r.Context(), id, patch)
		if err != nil {
			slog.Error("error patching student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}/
// Permanently removes a student and drops them from every course.
//
// Success response: 204 No Content.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("deleting a student", slog.Int64("id", id))

		if err := storage.DeleteStudentByID(r.Context(), id); err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.NoContent(w)
	}
}
