package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"wellnesscal/internal/domain"
)

// testLogger discards output so tests don't assert on log lines.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Event
	findErr   error // if set, FindOverlapping returns this error
	insertErr error // if set, Insert returns this error
	listErr   error
	setExtErr error
	inserts   int
	guarded   []bool
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func confirmedEvent(id, userID, title, start, end string) *domain.Event {
	return &domain.Event{
		ID:          id,
		UserID:      userID,
		Title:       title,
		StartTime:   at(start),
		EndTime:     at(end),
		Status:      domain.StatusConfirmed,
		IsConfirmed: true,
		IsActive:    true,
	}
}

func (f *fakeEventRepo) overlapping(userID string, start, end time.Time) []*domain.Event {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.UserID != userID || !e.IsActive || e.Status != domain.StatusConfirmed {
			continue
		}
		if e.StartTime.Before(end) && e.EndTime.After(start) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (f *fakeEventRepo) FindOverlapping(_ context.Context, userID string, start, end time.Time) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.overlapping(userID, start, end), nil
}

func (f *fakeEventRepo) Insert(_ context.Context, e *domain.Event, guardOverlap bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guarded = append(f.guarded, guardOverlap)
	if f.insertErr != nil {
		return f.insertErr
	}
	if guardOverlap && len(f.overlapping(e.UserID, e.StartTime, e.EndTime)) > 0 {
		return domain.ErrOverlap
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", len(f.byID)+1)
	}
	f.byID[e.ID] = e
	f.inserts++
	return nil
}

func (f *fakeEventRepo) ListActiveInRange(_ context.Context, userID string, from, to time.Time) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if e.UserID == userID && e.IsActive && !e.StartTime.Before(from) && e.StartTime.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Confirm(_ context.Context, userID, eventID string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok || e.UserID != userID || !e.IsActive || e.Status != domain.StatusTentative {
		return nil, domain.ErrNotFound
	}
	for _, other := range f.overlapping(userID, e.StartTime, e.EndTime) {
		if other.ID != e.ID {
			return e, domain.ErrOverlap
		}
	}
	e.Status = domain.StatusConfirmed
	e.IsConfirmed = true
	return e, nil
}

func (f *fakeEventRepo) SetExternalID(_ context.Context, eventID, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setExtErr != nil {
		return f.setExtErr
	}
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.ExternalID = &externalID
	return nil
}

// fakeIntegrationRepo keeps one integration row per user.
type fakeIntegrationRepo struct {
	byUser    map[string]*domain.CalendarIntegration
	getErr    error
	upsertErr error
	upserts   int
}

func newFakeIntegrationRepo(integrations ...*domain.CalendarIntegration) *fakeIntegrationRepo {
	f := &fakeIntegrationRepo{byUser: make(map[string]*domain.CalendarIntegration)}
	for _, c := range integrations {
		f.byUser[c.UserID] = c
	}
	return f
}

func (f *fakeIntegrationRepo) GetActiveByUser(_ context.Context, userID string) (*domain.CalendarIntegration, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.byUser[userID]
	if !ok || !c.IsActive {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeIntegrationRepo) Upsert(_ context.Context, c *domain.CalendarIntegration) (bool, error) {
	if f.upsertErr != nil {
		return false, f.upsertErr
	}
	f.upserts++
	if existing, ok := f.byUser[c.UserID]; ok {
		existing.Provider = c.Provider
		if c.Timezone != "" {
			existing.Timezone = c.Timezone
		}
		existing.RequireConfirmation = c.RequireConfirmation
		existing.IsActive = true
		existing.SetupCompleted = false
		c.ID = existing.ID
		return false, nil
	}
	c.ID = fmt.Sprintf("int-%d", len(f.byUser)+1)
	stored := *c
	f.byUser[c.UserID] = &stored
	return true, nil
}

// fakeTemplateRepo serves templates keyed by user and name.
type fakeTemplateRepo struct {
	templates map[string]*domain.EventTemplate
	err       error
}

func newFakeTemplateRepo(templates ...*domain.EventTemplate) *fakeTemplateRepo {
	f := &fakeTemplateRepo{templates: make(map[string]*domain.EventTemplate)}
	for _, t := range templates {
		f.templates[t.UserID+"/"+t.Name] = t
	}
	return f
}

func (f *fakeTemplateRepo) GetByName(_ context.Context, userID, name string) (*domain.EventTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.templates[userID+"/"+name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

type fakeSyncFailureRepo struct {
	recorded []*domain.SyncFailure
	err      error
}

func (f *fakeSyncFailureRepo) Record(_ context.Context, sf *domain.SyncFailure) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, sf)
	return nil
}

// fakeProvider implements domain.CalendarProvider.
type fakeProvider struct {
	externalID string
	err        error
	inserted   []*domain.Event
}

func (f *fakeProvider) Name() string { return "google" }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (f *fakeProvider) InsertEvent(_ context.Context, _ *domain.CalendarIntegration, e *domain.Event) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.inserted = append(f.inserted, e)
	return f.externalID, nil
}

type fakeStateSigner struct {
	err error
}

func (f *fakeStateSigner) Sign(userID, provider string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "state-" + provider + "-" + userID, nil
}

type fakeNotifier struct {
	calls  int
	failed []string
}

func (f *fakeNotifier) SendEventInvitations(_ context.Context, e *domain.Event) (int, []string) {
	f.calls++
	return len(e.Attendees) - len(f.failed), f.failed
}
