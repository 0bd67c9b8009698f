package services

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"wellnesscal/internal/domain"
)

// DefaultEventDuration is used when a request gives neither an end time nor a duration.
const DefaultEventDuration = 60 * time.Minute

// MaxEventDuration bounds the length of a single event occurrence.
const MaxEventDuration = 366 * 24 * time.Hour

// Accepted timestamp layouts, tried in order. Layouts without a zone are
// interpreted in the caller-supplied location.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

const dateLayout = "2006-01-02"

var frequencies = map[string]rrule.Frequency{
	"daily":   rrule.DAILY,
	"weekly":  rrule.WEEKLY,
	"monthly": rrule.MONTHLY,
	"yearly":  rrule.YEARLY,
}

// NormalizeOptions controls NormalizeEvent.
type NormalizeOptions struct {
	// Location interprets timestamps without a zone. Nil means UTC.
	Location *time.Location
	// RequireTitle is false for the partial normalisation of conflict checks.
	RequireTitle bool
}

// NormalizeEvent converts a raw event payload into a canonical event draft
// with explicit start and end times and a derived duration. It has no side
// effects; the returned event has no ID or status yet.
func NormalizeEvent(userID string, in *domain.EventInput, opts NormalizeOptions) (*domain.Event, error) {
	if in == nil {
		return nil, domain.NewValidationError("eventData", "is required")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	title := strings.TrimSpace(in.Title)
	if title == "" && opts.RequireTitle {
		return nil, domain.NewValidationError("title", "is required")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		return nil, domain.NewValidationError("startTime", "is required")
	}
	start, dateOnly, err := parseTimestamp(in.StartTime, loc)
	if err != nil {
		return nil, domain.NewValidationError("startTime", "invalid timestamp %q", in.StartTime)
	}

	allDay := dateOnly
	if in.AllDay != nil {
		allDay = *in.AllDay
	}
	if allDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	}

	var end time.Time
	switch {
	case in.EndTime != nil && strings.TrimSpace(*in.EndTime) != "":
		end, _, err = parseTimestamp(*in.EndTime, loc)
		if err != nil {
			return nil, domain.NewValidationError("endTime", "invalid timestamp %q", *in.EndTime)
		}
	case in.Duration != nil:
		if *in.Duration <= 0 {
			return nil, domain.NewValidationError("duration", "must be a positive number of minutes")
		}
		if *in.Duration > int(MaxEventDuration/time.Minute) {
			return nil, domain.NewValidationError("duration", "must not exceed %d minutes", int(MaxEventDuration/time.Minute))
		}
		end = start.Add(time.Duration(*in.Duration) * time.Minute)
	case allDay:
		end = start.AddDate(0, 0, 1)
	default:
		end = start.Add(DefaultEventDuration)
	}
	if !end.After(start) {
		if !allDay {
			return nil, domain.NewValidationError("endTime", "must be after startTime")
		}
		end = start.AddDate(0, 0, 1)
	}
	if end.Sub(start) > MaxEventDuration {
		return nil, domain.NewValidationError("endTime", "must be within %d days of startTime", int(MaxEventDuration/(24*time.Hour)))
	}

	attendees := make([]domain.Attendee, 0, len(in.Attendees))
	for i, a := range in.Attendees {
		email := strings.TrimSpace(a.Email)
		if !strings.Contains(email, "@") {
			return nil, domain.NewValidationError("attendees", "entry %d has an invalid email %q", i, a.Email)
		}
		attendees = append(attendees, domain.Attendee{Email: email, Name: strings.TrimSpace(a.Name)})
	}

	reminders := make([]int, 0, len(in.Reminders))
	for _, m := range in.Reminders {
		if m < 0 {
			return nil, domain.NewValidationError("reminders", "offsets must not be negative")
		}
		reminders = append(reminders, m)
	}

	var recurrence string
	if in.Recurrence != nil {
		recurrence, err = compileRecurrence(in.Recurrence, start, loc)
		if err != nil {
			return nil, err
		}
	}

	return &domain.Event{
		UserID:      userID,
		Title:       title,
		Description: deref(in.Description),
		Location:    deref(in.Location),
		StartTime:   start,
		EndTime:     end,
		AllDay:      allDay,
		Attendees:   attendees,
		Reminders:   reminders,
		Duration:    durationMinutes(start, end),
		Recurrence:  recurrence,
	}, nil
}

// parseTimestamp parses s in one of the accepted layouts. dateOnly reports
// whether s carried no time of day.
func parseTimestamp(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	for _, layout := range zonelessLayouts {
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	if t, err = time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}

func compileRecurrence(r *domain.Recurrence, start time.Time, loc *time.Location) (string, error) {
	freq, ok := frequencies[strings.ToLower(strings.TrimSpace(r.Frequency))]
	if !ok {
		return "", domain.NewValidationError("recurrence.frequency", "must be one of daily, weekly, monthly, yearly")
	}
	if r.Interval < 0 {
		return "", domain.NewValidationError("recurrence.interval", "must not be negative")
	}
	if r.Count < 0 {
		return "", domain.NewValidationError("recurrence.count", "must not be negative")
	}
	opt := rrule.ROption{
		Freq:     freq,
		Dtstart:  start,
		Interval: r.Interval,
		Count:    r.Count,
	}
	if r.EndDate != nil && strings.TrimSpace(*r.EndDate) != "" {
		if r.Count > 0 {
			return "", domain.NewValidationError("recurrence", "endDate and count are mutually exclusive")
		}
		until, dateOnly, err := parseTimestamp(*r.EndDate, loc)
		if err != nil {
			return "", domain.NewValidationError("recurrence.endDate", "invalid timestamp %q", *r.EndDate)
		}
		if dateOnly {
			// the whole end date is included
			until = until.AddDate(0, 0, 1).Add(-time.Second)
		}
		if until.Before(start) {
			return "", domain.NewValidationError("recurrence.endDate", "must not be before startTime")
		}
		opt.Until = until
	}
	if _, err := rrule.NewRRule(opt); err != nil {
		return "", domain.NewValidationError("recurrence", "%v", err)
	}
	return opt.RRuleString(), nil
}

func durationMinutes(start, end time.Time) int {
	return int(end.Sub(start).Round(time.Minute) / time.Minute)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
