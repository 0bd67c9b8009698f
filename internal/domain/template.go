package domain

import "context"

// EventTemplate holds a user's reusable defaults for new events.
type EventTemplate struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Location    string
	Reminders   []int
	// Duration in minutes; zero means no default.
	Duration int
	IsActive bool
}

// TemplateRepository defines read access to event templates.
type TemplateRepository interface {
	// GetByName returns ErrNotFound when the user has no template with that name.
	GetByName(ctx context.Context, userID, name string) (*EventTemplate, error)
}
