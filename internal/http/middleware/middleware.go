// Package middleware holds the HTTP middleware this service adds on top of
// chi's own: request logging, a global rate limit and a request body cap.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aanand-mishra/courses-api/internal/utils/response"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// RequestLogger logs one line per request once the response is written.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			log.LogAttrs(r.Context(), level, "request",
				slog.String("request_id", chimw.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// RateLimit limits requests per second across all clients.
// If requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond, burst int) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				slog.Warn("rate limit exceeded", slog.String("remote_addr", r.RemoteAddr))
				w.Header().Set("Retry-After", "1")
				response.WriteJSON(w, http.StatusTooManyRequests,
					response.GeneralError(fmt.Errorf("too many requests, please try again later")))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimit rejects bodies larger than maxBytes with 413.
//
// A Content-Length over the limit is rejected up front. Otherwise the body
// is wrapped in http.MaxBytesReader and the decode error surfaces as 413
// from the handler.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				response.WriteJSON(w, http.StatusRequestEntityTooLarge,
					response.GeneralError(fmt.Errorf(
						"request body size (%d bytes) exceeds maximum allowed size (%d bytes)",
						r.ContentLength, maxBytes)))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
