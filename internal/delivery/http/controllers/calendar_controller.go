package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"wellnesscal/internal/delivery/http/helpers"
	"wellnesscal/internal/domain"
)

type CalendarController struct {
	Logger  *slog.Logger
	Service domain.CalendarService
}

func NewCalendarController(logger *slog.Logger, svc domain.CalendarService) *CalendarController {
	return &CalendarController{
		Logger:  logger,
		Service: svc,
	}
}

// Handle godoc
// @Summary Run a calendar action
// @Description Single entry point for calendar actions: create, confirm, update, delete, list, check_conflicts, setup_oauth and sync.
// @Description Domain outcomes such as validation problems and scheduling conflicts are returned with HTTP 200 and success=false; check the success field.
// @Tags calendar
// @Accept json
// @Produce json
// @Param request body domain.CalendarRequest true "Calendar action"
// @Success 200 {object} domain.CalendarResponse "success=false for validation failures and conflicts"
// @Failure 500 {object} helpers.ErrorResponse "malformed body, unsupported action or storage failure"
// @Router /calendar [post]
func (c *CalendarController) Handle(w http.ResponseWriter, r *http.Request) {
	var req domain.CalendarRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		c.Logger.WarnContext(r.Context(), "malformed calendar request", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, err.Error(), "Malformed request")
		return
	}

	resp, err := c.Service.Handle(r.Context(), &req)
	if err != nil {
		var unsupported *domain.UnsupportedActionError
		if errors.As(err, &unsupported) {
			c.Logger.WarnContext(r.Context(), "unsupported calendar action", "action", unsupported.Action)
			helpers.WriteJSONError(w, http.StatusInternalServerError, err.Error(), "Unsupported action")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "action", req.Action, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, "internal error", "The request could not be completed")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
