package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"wellnesscal/internal/delivery/http/helpers"
)

// Recover turns a panic in next into a 500 JSON envelope.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.ErrorContext(r.Context(), "panic serving request",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			helpers.WriteJSONError(w, http.StatusInternalServerError, "internal error", "The request could not be completed")
		}()
		next.ServeHTTP(w, r)
	})
}
