package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"wellnesscal/internal/delivery/http/controllers"
	"wellnesscal/internal/delivery/http/helpers"
	"wellnesscal/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes and
// wraps it in the recover, logging and CORS middleware.
func NewRouter(logger *slog.Logger, calendarController *controllers.CalendarController, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("POST /calendar", calendarController.Handle)

	// Operations
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(middleware.Logging(logger, middleware.Recover(logger, mux)))
}
