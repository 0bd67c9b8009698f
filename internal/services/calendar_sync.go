package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wellnesscal/internal/domain"
	"wellnesscal/internal/observability"
)

// CalendarSyncer pushes locally persisted events to the user's external
// calendar. A failed push never touches the local event; it is recorded in
// the sync failure log instead.
type CalendarSyncer struct {
	provider domain.CalendarProvider
	events   domain.EventRepository
	failures domain.SyncFailureRepository
	logger   *slog.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewCalendarSyncer(
	provider domain.CalendarProvider,
	events domain.EventRepository,
	failures domain.SyncFailureRepository,
	logger *slog.Logger,
	metrics *observability.Metrics,
	now func() time.Time,
) *CalendarSyncer {
	if now == nil {
		now = time.Now
	}
	return &CalendarSyncer{
		provider: provider,
		events:   events,
		failures: failures,
		logger:   logger,
		metrics:  metrics,
		now:      now,
	}
}

// Sync pushes e to the provider of integration and stores the provider id
// on the event. It returns ErrIntegrationMissing when the integration cannot
// be used, ErrTokenExpired when the stored token has expired, and an error
// wrapping ErrProviderSync when the provider call fails.
func (s *CalendarSyncer) Sync(ctx context.Context, integration *domain.CalendarIntegration, e *domain.Event) (string, error) {
	if !integration.Ready() {
		return "", domain.ErrIntegrationMissing
	}
	if integration.TokenExpired(s.now()) {
		s.recordFailure(ctx, e, domain.SyncReasonTokenExpired, domain.ErrTokenExpired)
		return "", domain.ErrTokenExpired
	}

	externalID, err := s.provider.InsertEvent(ctx, integration, e)
	if err != nil {
		s.recordFailure(ctx, e, domain.SyncReasonProvider, err)
		return "", fmt.Errorf("%w: %w", domain.ErrProviderSync, err)
	}

	e.ExternalID = &externalID
	if err := s.events.SetExternalID(ctx, e.ID, externalID); err != nil {
		// the provider copy exists; only the back-reference is missing
		s.logger.ErrorContext(ctx, "store external event id failed",
			"event_id", e.ID, "external_id", externalID, "err", err)
	}
	s.metrics.ObserveSync("ok")
	s.logger.InfoContext(ctx, "event synced", "event_id", e.ID, "provider", s.provider.Name(), "external_id", externalID)
	return externalID, nil
}

func (s *CalendarSyncer) recordFailure(ctx context.Context, e *domain.Event, reason domain.SyncFailureReason, cause error) {
	s.metrics.ObserveSync(string(reason))
	s.logger.WarnContext(ctx, "event sync failed",
		"event_id", e.ID, "user_id", e.UserID, "reason", reason, "err", cause)
	f := &domain.SyncFailure{
		EventID:   e.ID,
		UserID:    e.UserID,
		Reason:    reason,
		Message:   cause.Error(),
		CreatedAt: s.now(),
	}
	if err := s.failures.Record(ctx, f); err != nil {
		s.logger.ErrorContext(ctx, "record sync failure failed", "event_id", e.ID, "err", err)
	}
}
