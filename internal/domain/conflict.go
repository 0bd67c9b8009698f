package domain

import "time"

// ConflictType classifies how an existing event overlaps a requested interval.
type ConflictType string

const (
	// ConflictFull means one interval encloses the other.
	ConflictFull ConflictType = "full"
	// ConflictPartial means the intervals overlap without either enclosing the other.
	ConflictPartial ConflictType = "partial"
)

// Conflict describes one existing event that overlaps a requested interval.
// swagger:model Conflict
type Conflict struct {
	EventID      string       `json:"eventId"`
	Title        string       `json:"title"`
	StartTime    time.Time    `json:"startTime"`
	EndTime      time.Time    `json:"endTime"`
	ConflictType ConflictType `json:"conflictType"`
}

// Suggestion is a free alternative slot; a higher score is a better fit.
// swagger:model Suggestion
type Suggestion struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Score     float64   `json:"score"`
}
