package google

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"wellnesscal/internal/domain"
)

const providerName = "google"

// eventIDProperty links a Google event back to the local event row.
const eventIDProperty = "wellnesscalEventId"

// Config holds the OAuth client and calendar settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	CalendarID   string
	// Endpoint overrides the Calendar API base URL; empty uses Google's.
	Endpoint string
}

type calendarProvider struct {
	oauth      *oauth2.Config
	calendarID string
	endpoint   string
}

// NewCalendarProvider returns a CalendarProvider backed by the Google Calendar v3 API.
func NewCalendarProvider(cfg Config) domain.CalendarProvider {
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &calendarProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		calendarID: calendarID,
		endpoint:   cfg.Endpoint,
	}
}

func (p *calendarProvider) Name() string { return providerName }

// AuthCodeURL asks for offline access so a refresh token is issued.
func (p *calendarProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (p *calendarProvider) InsertEvent(ctx context.Context, integration *domain.CalendarIntegration, e *domain.Event) (string, error) {
	token := &oauth2.Token{
		AccessToken:  integration.AccessToken,
		RefreshToken: integration.RefreshToken,
		Expiry:       integration.TokenExpiry,
		TokenType:    "Bearer",
	}
	opts := []option.ClientOption{option.WithHTTPClient(p.oauth.Client(ctx, token))}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create calendar service: %w", err)
	}

	created, err := service.Events.Insert(p.calendarID, toGoogleEvent(e, integration.Timezone)).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("insert google event: %w", err)
	}
	return created.Id, nil
}

func toGoogleEvent(e *domain.Event, timezone string) *calendar.Event {
	ev := &calendar.Event{
		Summary:     e.Title,
		Description: e.Description,
		Location:    e.Location,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{eventIDProperty: e.ID},
		},
	}
	if e.Recurrence != "" {
		ev.Recurrence = []string{"RRULE:" + e.Recurrence}
		// recurring events need an explicit zone to expand
		if timezone == "" {
			timezone = "UTC"
		}
	}

	if e.AllDay {
		ev.Start = &calendar.EventDateTime{Date: e.StartTime.Format(time.DateOnly)}
		ev.End = &calendar.EventDateTime{Date: e.EndTime.Format(time.DateOnly)}
	} else {
		ev.Start = &calendar.EventDateTime{DateTime: e.StartTime.Format(time.RFC3339), TimeZone: timezone}
		ev.End = &calendar.EventDateTime{DateTime: e.EndTime.Format(time.RFC3339), TimeZone: timezone}
	}

	for _, a := range e.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: a.Email, DisplayName: a.Name})
	}

	if len(e.Reminders) > 0 {
		overrides := make([]*calendar.EventReminder, 0, len(e.Reminders))
		for _, m := range e.Reminders {
			overrides = append(overrides, &calendar.EventReminder{Method: "popup", Minutes: int64(m), ForceSendFields: []string{"Minutes"}})
		}
		ev.Reminders = &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		}
	}
	return ev
}
