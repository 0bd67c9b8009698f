package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventInvitationEmailData holds data for the event invitation email.
type EventInvitationEmailData struct {
	Email       string
	Name        string
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
}

// EventNotifier informs attendees about confirmed events.
type EventNotifier interface {
	// SendEventInvitations mails every attendee of e and returns the
	// addresses that could not be reached.
	SendEventInvitations(ctx context.Context, e *Event) (sent int, failed []string)
}
