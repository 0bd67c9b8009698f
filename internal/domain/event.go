package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of a calendar event.
type EventStatus string

const (
	StatusTentative EventStatus = "tentative"
	StatusConfirmed EventStatus = "confirmed"
	StatusCancelled EventStatus = "cancelled"
)

// Attendee is an invited participant of an event.
// swagger:model Attendee
type Attendee struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Event is a user's calendar entry in canonical form: start and end are
// always explicit and Duration is end minus start in whole minutes.
// swagger:model Event
type Event struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location,omitempty"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
	AllDay      bool        `json:"allDay"`
	Attendees   []Attendee  `json:"attendees"`
	Reminders   []int       `json:"reminders"`
	Duration    int         `json:"duration"`
	IsManaged   bool        `json:"isManaged"`
	IsConfirmed bool        `json:"isConfirmed"`
	Status      EventStatus `json:"status"`
	ExternalID  *string     `json:"externalId"`
	// Recurrence is an RFC 5545 RRULE value (without the "RRULE:" prefix).
	Recurrence string    `json:"recurrence,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Reschedule moves the event to start while keeping its duration.
func (e *Event) Reschedule(start time.Time) {
	d := e.EndTime.Sub(e.StartTime)
	e.StartTime = start
	e.EndTime = start.Add(d)
}

// EventRepository is the data-access collaborator for events.
type EventRepository interface {
	// FindOverlapping returns the user's active, confirmed events whose
	// interval intersects [start, end), ordered by start time.
	FindOverlapping(ctx context.Context, userID string, start, end time.Time) ([]*Event, error)
	// Insert persists a new event. When guardOverlap is true the insert is
	// serialized per user and fails with ErrOverlap if a confirmed event
	// already intersects the new one.
	Insert(ctx context.Context, e *Event, guardOverlap bool) error
	// ListActiveInRange returns active events starting in [from, to), ordered by start ascending.
	ListActiveInRange(ctx context.Context, userID string, from, to time.Time) ([]*Event, error)
	// Confirm flips a tentative event to confirmed and returns it. Like a
	// guarded Insert it fails with ErrOverlap, returning the still tentative
	// event, when a confirmed event already intersects it.
	Confirm(ctx context.Context, userID, eventID string) (*Event, error)
	SetExternalID(ctx context.Context, eventID, externalID string) error
}
