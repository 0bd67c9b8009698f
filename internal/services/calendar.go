package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"wellnesscal/internal/domain"
	"wellnesscal/internal/observability"
)

// listWindow is how far ahead list looks from now.
const listWindow = 30 * 24 * time.Hour

// CalendarDeps wires the collaborators of the calendar service.
type CalendarDeps struct {
	Events       domain.EventRepository
	Integrations domain.IntegrationRepository
	Detector     *ConflictDetector
	Slots        *SlotGenerator
	Templates    *TemplateApplicator
	Syncer       *CalendarSyncer
	Notifier     domain.EventNotifier
	Provider     domain.CalendarProvider
	StateSigner  domain.StateSigner
	Logger       *slog.Logger
	Metrics      *observability.Metrics
	Timeout      time.Duration
	Now          func() time.Time
	NewID        func() string
}

type calendarService struct {
	events         domain.EventRepository
	integrations   domain.IntegrationRepository
	detector       *ConflictDetector
	slots          *SlotGenerator
	templates      *TemplateApplicator
	syncer         *CalendarSyncer
	notifier       domain.EventNotifier
	provider       domain.CalendarProvider
	stateSigner    domain.StateSigner
	logger         *slog.Logger
	metrics        *observability.Metrics
	contextTimeout time.Duration
	now            func() time.Time
	newID          func() string
}

func NewCalendarService(d CalendarDeps) domain.CalendarService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Timeout <= 0 {
		d.Timeout = 15 * time.Second
	}
	return &calendarService{
		events:         d.Events,
		integrations:   d.Integrations,
		detector:       d.Detector,
		slots:          d.Slots,
		templates:      d.Templates,
		syncer:         d.Syncer,
		notifier:       d.Notifier,
		provider:       d.Provider,
		stateSigner:    d.StateSigner,
		logger:         d.Logger,
		metrics:        d.Metrics,
		contextTimeout: d.Timeout,
		now:            d.Now,
		newID:          d.NewID,
	}
}

// Handle routes req to its action. Domain outcomes (validation problems,
// conflicts, missing templates or integrations) come back as a response
// with Success false; an error is returned only for an unknown action or a
// failed write.
func (s *calendarService) Handle(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	resp, err := s.dispatch(ctx, req)
	s.metrics.ObserveRequest(string(req.Action), outcome(resp, err), time.Since(started))
	return resp, err
}

func (s *calendarService) dispatch(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	switch req.Action {
	case domain.ActionCreate, domain.ActionConfirm, domain.ActionCheckConflicts, domain.ActionList,
		domain.ActionSetupOAuth, domain.ActionUpdate, domain.ActionDelete, domain.ActionSync:
	default:
		return nil, &domain.UnsupportedActionError{Action: string(req.Action)}
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return validationFailure(domain.NewValidationError("userId", "is required")), nil
	}

	switch req.Action {
	case domain.ActionCreate:
		return s.create(ctx, req)
	case domain.ActionConfirm:
		return s.confirm(ctx, req)
	case domain.ActionCheckConflicts:
		return s.checkConflicts(ctx, req)
	case domain.ActionList:
		return s.list(ctx, req)
	case domain.ActionSetupOAuth:
		return s.setupOAuth(ctx, req)
	default:
		return &domain.CalendarResponse{
			Success: true,
			Message: fmt.Sprintf("%s is not yet supported; no changes were made", req.Action),
		}, nil
	}
}

func (s *calendarService) create(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	if req.EventData == nil {
		return validationFailure(domain.NewValidationError("eventData", "is required")), nil
	}
	prefs := preferencesOf(req)
	strategy, err := resolutionStrategy(req)
	if err != nil {
		return validationFailure(err), nil
	}
	integration := s.activeIntegration(ctx, req.UserID)

	input := s.templates.Apply(ctx, req.UserID, prefs.UseTemplate, req.EventData)
	event, err := NormalizeEvent(req.UserID, input, NormalizeOptions{Location: integration.Location(), RequireTitle: true})
	if err != nil {
		return validationFailure(err), nil
	}

	checkConflicts := boolOr(prefs.CheckConflicts, true)
	guard := checkConflicts && strategy != domain.StrategyForce
	var notes []string
	if strategy == domain.StrategyReschedule {
		alt, err := alternativeStart(req, integration)
		if err != nil {
			return validationFailure(err), nil
		}
		event.Reschedule(alt)
		notes = append(notes, "moved to the requested alternative time")
	}
	if checkConflicts {
		conflicts := s.detector.Detect(ctx, req.UserID, event.StartTime, event.EndTime)
		if len(conflicts) > 0 {
			switch {
			case strategy == domain.StrategyForce:
				s.logger.InfoContext(ctx, "creating event despite conflicts",
					"user_id", req.UserID, "conflicts", len(conflicts))
				notes = append(notes, fmt.Sprintf("overlaps %d existing event(s)", len(conflicts)))
			case boolOr(prefs.AutoOptimize, false):
				suggestions := s.slots.Suggest(ctx, req.UserID, event.StartTime, event.EndTime.Sub(event.StartTime), DefaultSearchHorizon)
				if len(suggestions) == 0 {
					return conflictResponse(event, conflicts, suggestions), nil
				}
				event.Reschedule(suggestions[0].StartTime)
				notes = append(notes, "rescheduled to "+event.StartTime.Format(time.RFC3339)+" to avoid conflicts")
			default:
				return s.conflictOutcome(ctx, prefs, event, conflicts), nil
			}
		}
	}

	requireConfirmation := boolOr(prefs.RequireConfirmation, false) ||
		(integration != nil && integration.RequireConfirmation)

	now := s.now()
	event.ID = s.newID()
	event.IsActive = true
	event.IsManaged = true
	event.CreatedAt = now
	event.UpdatedAt = now
	if requireConfirmation {
		event.Status = domain.StatusTentative
		event.IsConfirmed = false
	} else {
		event.Status = domain.StatusConfirmed
		event.IsConfirmed = true
	}

	if err := s.events.Insert(ctx, event, guard); err != nil {
		if errors.Is(err, domain.ErrOverlap) {
			conflicts := s.detector.Detect(ctx, req.UserID, event.StartTime, event.EndTime)
			return s.conflictOutcome(ctx, prefs, event, conflicts), nil
		}
		return nil, fmt.Errorf("persist event: %w", err)
	}

	if requireConfirmation {
		return &domain.CalendarResponse{
			Success:              true,
			Data:                 event,
			Message:              joinMessage("Event saved as tentative; confirm it to finalize", notes),
			RequiresConfirmation: true,
			ConfirmationToken:    event.ID,
		}, nil
	}

	msg := s.finalize(ctx, integration, event, "Event created")
	return &domain.CalendarResponse{
		Success: true,
		Data:    event,
		Message: joinMessage(msg, notes),
	}, nil
}

// confirm converts a tentative event into a confirmed one.
func (s *calendarService) confirm(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	token := strings.TrimSpace(req.ConfirmationToken)
	if token == "" {
		return validationFailure(domain.NewValidationError("confirmationToken", "is required")), nil
	}
	event, err := s.events.Confirm(ctx, req.UserID, token)
	if err != nil {
		if errors.Is(err, domain.ErrOverlap) && event != nil {
			conflicts := s.detector.Detect(ctx, req.UserID, event.StartTime, event.EndTime)
			return s.conflictOutcome(ctx, preferencesOf(req), event, conflicts), nil
		}
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CalendarResponse{
				Success: false,
				Error:   "no pending event for this confirmation token",
				Message: "Nothing to confirm",
			}, nil
		}
		return nil, fmt.Errorf("confirm event: %w", err)
	}
	integration := s.activeIntegration(ctx, req.UserID)
	msg := s.finalize(ctx, integration, event, "Event confirmed")
	return &domain.CalendarResponse{Success: true, Data: event, Message: msg}, nil
}

func (s *calendarService) checkConflicts(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	if req.EventData == nil {
		return validationFailure(domain.NewValidationError("eventData", "is required")), nil
	}
	prefs := preferencesOf(req)
	integration := s.activeIntegration(ctx, req.UserID)
	input := s.templates.Apply(ctx, req.UserID, prefs.UseTemplate, req.EventData)
	event, err := NormalizeEvent(req.UserID, input, NormalizeOptions{Location: integration.Location()})
	if err != nil {
		return validationFailure(err), nil
	}

	conflicts := s.detector.Detect(ctx, req.UserID, event.StartTime, event.EndTime)
	var suggestions []domain.Suggestion
	if len(conflicts) > 0 && boolOr(prefs.SuggestAlternatives, true) {
		suggestions = s.slots.Suggest(ctx, req.UserID, event.StartTime, event.EndTime.Sub(event.StartTime), DefaultSearchHorizon)
	}
	msg := "The requested time is free"
	if len(conflicts) > 0 {
		msg = fmt.Sprintf("The requested time conflicts with %d existing event(s)", len(conflicts))
	}
	return &domain.CalendarResponse{
		Success: true,
		Data: domain.ConflictCheck{
			HasConflicts: len(conflicts) > 0,
			StartTime:    event.StartTime.Format(time.RFC3339),
			EndTime:      event.EndTime.Format(time.RFC3339),
		},
		Conflicts:   conflicts,
		Suggestions: suggestions,
		Message:     msg,
	}, nil
}

func (s *calendarService) list(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	now := s.now()
	events, err := s.events.ListActiveInRange(ctx, req.UserID, now, now.Add(listWindow))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return &domain.CalendarResponse{Success: true, Data: events}, nil
}

func (s *calendarService) setupOAuth(ctx context.Context, req *domain.CalendarRequest) (*domain.CalendarResponse, error) {
	prefs := preferencesOf(req)
	tz := strings.TrimSpace(prefs.Timezone)
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return validationFailure(domain.NewValidationError("preferences.timezone", "unknown timezone %q", tz)), nil
		}
	}

	now := s.now()
	integration := &domain.CalendarIntegration{
		UserID:              req.UserID,
		Provider:            s.provider.Name(),
		Timezone:            tz,
		RequireConfirmation: boolOr(prefs.RequireConfirmation, false),
		IsActive:            true,
		SetupCompleted:      false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	created, err := s.integrations.Upsert(ctx, integration)
	if err != nil {
		return nil, fmt.Errorf("save integration: %w", err)
	}
	state, err := s.stateSigner.Sign(req.UserID, integration.Provider)
	if err != nil {
		return nil, fmt.Errorf("sign oauth state: %w", err)
	}
	s.logger.InfoContext(ctx, "calendar integration pending authorization",
		"user_id", req.UserID, "integration_id", integration.ID, "created", created)
	return &domain.CalendarResponse{
		Success: true,
		Data: domain.OAuthSetup{
			AuthURL:       s.provider.AuthCodeURL(state),
			IntegrationID: integration.ID,
			Created:       created,
		},
		Message: "Open the authorization URL to connect your calendar",
	}, nil
}

// finalize runs the best-effort steps after an event becomes confirmed:
// provider sync and attendee invitations. Neither can fail the request.
func (s *calendarService) finalize(ctx context.Context, integration *domain.CalendarIntegration, event *domain.Event, verb string) string {
	msg := verb + "; no calendar connected"
	if integration.Ready() {
		_, err := s.syncer.Sync(ctx, integration, event)
		switch {
		case err == nil:
			msg = verb + " and synced to your calendar"
		case errors.Is(err, domain.ErrTokenExpired):
			msg = verb + "; calendar authorization expired, reconnect your calendar to sync"
		default:
			msg = verb + "; calendar sync failed and will be retried"
		}
	} else if integration != nil {
		msg = verb + "; calendar connection is not completed"
	}

	if len(event.Attendees) > 0 && s.notifier != nil {
		if _, failed := s.notifier.SendEventInvitations(ctx, event); len(failed) > 0 {
			msg += fmt.Sprintf("; %d invitation(s) could not be sent", len(failed))
		}
	}
	return msg
}

func (s *calendarService) conflictOutcome(ctx context.Context, prefs domain.Preferences, event *domain.Event, conflicts []domain.Conflict) *domain.CalendarResponse {
	var suggestions []domain.Suggestion
	if boolOr(prefs.SuggestAlternatives, true) {
		suggestions = s.slots.Suggest(ctx, event.UserID, event.StartTime, event.EndTime.Sub(event.StartTime), DefaultSearchHorizon)
	}
	return conflictResponse(event, conflicts, suggestions)
}

// activeIntegration returns nil when the user has no usable integration.
// Lookup failures are logged and treated as a missing integration.
func (s *calendarService) activeIntegration(ctx context.Context, userID string) *domain.CalendarIntegration {
	integration, err := s.integrations.GetActiveByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "integration lookup failed", "user_id", userID, "err", err)
			s.metrics.ObserveDegradedRead("integration_lookup")
		}
		return nil
	}
	return integration
}

func conflictResponse(event *domain.Event, conflicts []domain.Conflict, suggestions []domain.Suggestion) *domain.CalendarResponse {
	msg := fmt.Sprintf("%q conflicts with %d existing event(s)", event.Title, len(conflicts))
	if len(conflicts) == 0 {
		msg = fmt.Sprintf("%q overlaps an event that was just created", event.Title)
	}
	return &domain.CalendarResponse{
		Success:              false,
		Conflicts:            conflicts,
		Suggestions:          suggestions,
		Message:              msg,
		Error:                domain.ErrOverlap.Error(),
		RequiresConfirmation: true,
	}
}

func validationFailure(err error) *domain.CalendarResponse {
	return &domain.CalendarResponse{
		Success: false,
		Error:   err.Error(),
		Message: "Invalid request",
	}
}

func preferencesOf(req *domain.CalendarRequest) domain.Preferences {
	if req.Preferences == nil {
		return domain.Preferences{}
	}
	return *req.Preferences
}

func resolutionStrategy(req *domain.CalendarRequest) (string, error) {
	if req.ConflictResolution == nil {
		return domain.StrategySuggest, nil
	}
	switch strategy := strings.ToLower(strings.TrimSpace(req.ConflictResolution.Strategy)); strategy {
	case "", domain.StrategySuggest:
		return domain.StrategySuggest, nil
	case domain.StrategyForce, domain.StrategyReschedule:
		return strategy, nil
	default:
		return "", domain.NewValidationError("conflictResolution.strategy", "unknown strategy %q", req.ConflictResolution.Strategy)
	}
}

func alternativeStart(req *domain.CalendarRequest, integration *domain.CalendarIntegration) (time.Time, error) {
	alt := req.ConflictResolution.AlternativeTime
	if alt == nil || strings.TrimSpace(*alt) == "" {
		return time.Time{}, domain.NewValidationError("conflictResolution.alternativeTime", "is required for the reschedule strategy")
	}
	t, _, err := parseTimestamp(*alt, integration.Location())
	if err != nil {
		return time.Time{}, domain.NewValidationError("conflictResolution.alternativeTime", "invalid timestamp %q", *alt)
	}
	return t, nil
}

func outcome(resp *domain.CalendarResponse, err error) string {
	switch {
	case err != nil:
		return "error"
	case resp != nil && resp.Success:
		return "success"
	default:
		return "failure"
	}
}

func joinMessage(msg string, notes []string) string {
	if len(notes) == 0 {
		return msg
	}
	return msg + " (" + strings.Join(notes, "; ") + ")"
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
