package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wellnesscal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeCalendarService implements domain.CalendarService for handler tests.
type fakeCalendarService struct {
	resp    *domain.CalendarResponse
	err     error
	lastReq *domain.CalendarRequest
}

func (f *fakeCalendarService) Handle(_ context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestCalendarController_Handle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeCalendarService
		wantStatus int
		check      func(t *testing.T, body map[string]any, svc *fakeCalendarService)
	}{
		{
			name: "create success",
			body: `{"userId":"user-1","action":"create","eventData":{"title":"Team Sync","startTime":"2025-03-01T10:00","duration":30},"preferences":{"useTemplate":"standup"}}`,
			svc: &fakeCalendarService{resp: &domain.CalendarResponse{
				Success: true,
				Data:    map[string]string{"id": "ev-1"},
				Message: "Event created; no calendar connected",
			}},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any, svc *fakeCalendarService) {
				require.NotNil(t, svc.lastReq)
				assert.Equal(t, "user-1", svc.lastReq.UserID)
				assert.Equal(t, domain.ActionCreate, svc.lastReq.Action)
				require.NotNil(t, svc.lastReq.EventData)
				assert.Equal(t, "Team Sync", svc.lastReq.EventData.Title)
				require.NotNil(t, svc.lastReq.EventData.Duration)
				assert.Equal(t, 30, *svc.lastReq.EventData.Duration)
				assert.Equal(t, "standup", svc.lastReq.Preferences.UseTemplate)
				assert.Equal(t, true, body["success"])
				assert.Equal(t, false, body["requiresConfirmation"])
			},
		},
		{
			name: "conflict is still 200",
			body: `{"userId":"user-1","action":"create","eventData":{"title":"B","startTime":"2025-03-01T10:30:00Z"}}`,
			svc: &fakeCalendarService{resp: &domain.CalendarResponse{
				Success:              false,
				Conflicts:            []domain.Conflict{{EventID: "ev-a", Title: "A", ConflictType: domain.ConflictPartial}},
				Error:                domain.ErrOverlap.Error(),
				RequiresConfirmation: true,
			}},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any, _ *fakeCalendarService) {
				assert.Equal(t, false, body["success"])
				conflicts, ok := body["conflicts"].([]any)
				require.True(t, ok)
				require.Len(t, conflicts, 1)
				assert.Equal(t, "ev-a", conflicts[0].(map[string]any)["eventId"])
				assert.Equal(t, "partial", conflicts[0].(map[string]any)["conflictType"])
			},
		},
		{
			name:       "malformed body",
			body:       `{"userId":`,
			svc:        &fakeCalendarService{},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any, svc *fakeCalendarService) {
				assert.Nil(t, svc.lastReq, "service must not be called")
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "Malformed request", body["message"])
			},
		},
		{
			name:       "unsupported action",
			body:       `{"userId":"user-1","action":"archive"}`,
			svc:        &fakeCalendarService{err: &domain.UnsupportedActionError{Action: "archive"}},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any, _ *fakeCalendarService) {
				assert.Equal(t, false, body["success"])
				assert.Contains(t, body["error"], "archive")
			},
		},
		{
			name:       "write failure hides details",
			body:       `{"userId":"user-1","action":"create","eventData":{"title":"Yoga","startTime":"2025-03-01T10:00:00Z"}}`,
			svc:        &fakeCalendarService{err: errors.New("persist event: pq: connection refused")},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any, _ *fakeCalendarService) {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "internal error", body["error"])
				assert.NotContains(t, body["error"], "pq")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalendarController(testLogger, tt.svc)
			req := httptest.NewRequest(http.MethodPost, "/calendar", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			c.Handle(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			tt.check(t, body, tt.svc)
		})
	}
}
