// Package router maps URL paths to the endpoint handlers.
//
// Route table:
//
//	GET    /healthz            → store ping
//	GET    /courses/           → list courses (?id=, ?name=)
//	POST   /courses/           → create a course
//	GET    /courses/{id}/      → get one course
//	PUT    /courses/{id}/      → replace a course
//	PATCH  /courses/{id}/      → partially update a course
//	DELETE /courses/{id}/      → delete a course
//	(same six routes under /students/)
package router

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/courses-api/internal/config"
	"github.com/aanand-mishra/courses-api/internal/http/handlers/course"
	"github.com/aanand-mishra/courses-api/internal/http/handlers/student"
	"github.com/aanand-mishra/courses-api/internal/http/middleware"
	"github.com/aanand-mishra/courses-api/internal/storage"
	"github.com/aanand-mishra/courses-api/internal/utils/response"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// New builds the HTTP handler for the whole API.
func New(cfg *config.Config, store storage.Storage, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(middleware.RequestSizeLimit(cfg.HTTPServer.MaxBodyBytes))
	if cfg.HTTPServer.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.HTTPServer.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusNotFound,
			response.Response{Status: response.StatusError, Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusMethodNotAllowed,
			response.Response{Status: response.StatusError, Error: "method not allowed"})
	})

	r.Get("/healthz", health(store))

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", course.GetList(store))
		r.Post("/", course.New(store))
		r.Get("/{id}/", course.GetByID(store))
		r.Put("/{id}/", course.Update(store))
		r.Patch("/{id}/", course.Patch(store))
		r.Delete("/{id}/", course.Delete(store))
	})

	r.Route("/students", func(r chi.Router) {
		r.Get("/", student.GetList(store))
		r.Post("/", student.New(store))
		r.Get("/{id}/", student.GetByID(store))
		r.Put("/{id}/", student.Update(store))
		r.Patch("/{id}/", student.Patch(store))
		r.Delete("/{id}/", student.Delete(store))
	})

	return r
}

func health(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}
