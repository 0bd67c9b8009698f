package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"wellnesscal/internal/domain"
	"wellnesscal/internal/observability"
)

const (
	// DefaultSearchHorizon bounds how far from the preferred start alternatives are searched.
	DefaultSearchHorizon = 7 * 24 * time.Hour
	// MaxSuggestions is the most alternatives returned for one request.
	MaxSuggestions = 5
	suggestionStep = 30 * time.Minute
)

// SlotGenerator proposes free alternatives to a rejected time slot.
type SlotGenerator struct {
	events  domain.EventRepository
	logger  *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

func NewSlotGenerator(events domain.EventRepository, logger *slog.Logger, metrics *observability.Metrics, now func() time.Time) *SlotGenerator {
	if now == nil {
		now = time.Now
	}
	return &SlotGenerator{events: events, logger: logger, metrics: metrics, now: now}
}

// Suggest returns up to MaxSuggestions slots of length duration near
// preferred, closest first. Candidates lie on a 30 minute grid around
// preferred, never start in the past and never more than horizon away.
// Every returned slot is free of confirmed events. Scores fall linearly
// with distance from preferred, so a closer slot never scores lower.
// On a data access failure the result is empty.
func (g *SlotGenerator) Suggest(ctx context.Context, userID string, preferred time.Time, duration, horizon time.Duration) []domain.Suggestion {
	suggestions := make([]domain.Suggestion, 0, MaxSuggestions)
	if duration <= 0 {
		return suggestions
	}
	if horizon <= 0 {
		horizon = DefaultSearchHorizon
	}

	now := g.now()
	windowStart := preferred.Add(-horizon)
	if windowStart.Before(now) {
		windowStart = now
	}
	windowEnd := preferred.Add(horizon).Add(duration)
	if !windowStart.Before(windowEnd) {
		return suggestions
	}

	busy, err := g.events.FindOverlapping(ctx, userID, windowStart, windowEnd)
	if err != nil {
		g.logger.WarnContext(ctx, "suggestion search failed, returning no alternatives",
			"user_id", userID, "preferred", preferred, "err", err)
		g.metrics.ObserveDegradedRead("slot_generator")
		return suggestions
	}

	steps := int(horizon / suggestionStep)
	for k := 1; k <= steps && len(suggestions) < MaxSuggestions; k++ {
		offset := time.Duration(k) * suggestionStep
		// later slot first when two candidates are equally far away
		for _, start := range []time.Time{preferred.Add(offset), preferred.Add(-offset)} {
			if len(suggestions) == MaxSuggestions {
				break
			}
			if start.Before(now) {
				continue
			}
			end := start.Add(duration)
			if len(findConflicts(busy, start, end)) > 0 {
				continue
			}
			suggestions = append(suggestions, domain.Suggestion{
				StartTime: start,
				EndTime:   end,
				Score:     score(offset, horizon),
			})
		}
	}
	return suggestions
}

func score(distance, horizon time.Duration) float64 {
	s := 1 - float64(distance)/float64(horizon)
	if s < 0 {
		s = 0
	}
	return math.Round(s*1000) / 1000
}
