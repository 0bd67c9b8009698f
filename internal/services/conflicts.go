package services

import (
	"context"
	"log/slog"
	"time"

	"wellnesscal/internal/domain"
	"wellnesscal/internal/observability"
)

// ConflictDetector finds the user's confirmed events that overlap an interval.
type ConflictDetector struct {
	events  domain.EventRepository
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewConflictDetector(events domain.EventRepository, logger *slog.Logger, metrics *observability.Metrics) *ConflictDetector {
	return &ConflictDetector{events: events, logger: logger, metrics: metrics}
}

// Detect returns the conflicts of [start, end) for userID. A data access
// failure is logged and yields no conflicts: a missed conflict is preferred
// over blocking event creation.
func (d *ConflictDetector) Detect(ctx context.Context, userID string, start, end time.Time) []domain.Conflict {
	existing, err := d.events.FindOverlapping(ctx, userID, start, end)
	if err != nil {
		d.logger.WarnContext(ctx, "conflict check failed, assuming no conflicts",
			"user_id", userID, "start", start, "end", end, "err", err)
		d.metrics.ObserveDegradedRead("conflict_detector")
		return []domain.Conflict{}
	}
	conflicts := findConflicts(existing, start, end)
	d.metrics.AddConflicts(len(conflicts))
	return conflicts
}

// findConflicts filters existing down to the events overlapping [start, end).
func findConflicts(existing []*domain.Event, start, end time.Time) []domain.Conflict {
	conflicts := make([]domain.Conflict, 0)
	for _, e := range existing {
		if !Overlaps(e.StartTime, e.EndTime, start, end) {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{
			EventID:      e.ID,
			Title:        e.Title,
			StartTime:    e.StartTime,
			EndTime:      e.EndTime,
			ConflictType: classify(e.StartTime, e.EndTime, start, end),
		})
	}
	return conflicts
}

// Overlaps reports whether [s1, e1) and [s2, e2) share any instant.
// Adjacent intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// classify assumes the intervals overlap.
func classify(existingStart, existingEnd, start, end time.Time) domain.ConflictType {
	existingEnclosesQuery := !existingStart.After(start) && !existingEnd.Before(end)
	queryEnclosesExisting := !start.After(existingStart) && !end.Before(existingEnd)
	if existingEnclosesQuery || queryEnclosesExisting {
		return domain.ConflictFull
	}
	return domain.ConflictPartial
}
