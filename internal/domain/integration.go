package domain

import (
	"context"
	"time"
)

// CalendarIntegration is a user's connection to an external calendar provider.
// A user has at most one integration row; only an active one is used.
type CalendarIntegration struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	Provider            string    `json:"provider"`
	AccessToken         string    `json:"-"`
	RefreshToken        string    `json:"-"`
	TokenExpiry         time.Time `json:"tokenExpiry"`
	Timezone            string    `json:"timezone"`
	RequireConfirmation bool      `json:"requireConfirmation"`
	IsActive            bool      `json:"isActive"`
	SetupCompleted      bool      `json:"setupCompleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Ready reports whether events can be pushed to the provider.
func (c *CalendarIntegration) Ready() bool {
	return c != nil && c.IsActive && c.SetupCompleted
}

// TokenExpired reports whether the stored access token has expired at now.
// A zero expiry means the provider did not report one.
func (c *CalendarIntegration) TokenExpired(now time.Time) bool {
	return !c.TokenExpiry.IsZero() && now.After(c.TokenExpiry)
}

// Location returns the integration's default timezone, or UTC when it is unset or unknown.
func (c *CalendarIntegration) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IntegrationRepository defines the interface for calendar integration storage.
type IntegrationRepository interface {
	// GetActiveByUser returns ErrNotFound when the user has no active integration.
	GetActiveByUser(ctx context.Context, userID string) (*CalendarIntegration, error)
	// Upsert creates or updates the user's single integration row and marks
	// setup as not completed. created reports whether a new row was inserted.
	Upsert(ctx context.Context, c *CalendarIntegration) (created bool, err error)
}

// CalendarProvider pushes events to an external calendar.
type CalendarProvider interface {
	Name() string
	// AuthCodeURL returns the provider consent URL carrying state.
	AuthCodeURL(state string) string
	// InsertEvent creates e in the provider calendar and returns the provider id.
	InsertEvent(ctx context.Context, integration *CalendarIntegration, e *Event) (string, error)
}

// StateSigner produces tamper-proof OAuth state values bound to a user.
type StateSigner interface {
	Sign(userID, provider string) (string, error)
}

// SyncFailureReason classifies why a provider sync attempt failed.
type SyncFailureReason string

const (
	SyncReasonTokenExpired SyncFailureReason = "token_expired"
	SyncReasonProvider     SyncFailureReason = "provider"
)

// SyncFailure records a failed provider push for later retry.
type SyncFailure struct {
	ID        string
	EventID   string
	UserID    string
	Reason    SyncFailureReason
	Message   string
	CreatedAt time.Time
}

// SyncFailureRepository stores failed sync attempts.
type SyncFailureRepository interface {
	Record(ctx context.Context, f *SyncFailure) error
}
