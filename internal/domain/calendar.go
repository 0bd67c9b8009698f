package domain

import "context"

// Action selects the operation of a calendar request.
type Action string

const (
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionList           Action = "list"
	ActionCheckConflicts Action = "check_conflicts"
	ActionSetupOAuth     Action = "setup_oauth"
	ActionSync           Action = "sync"
	ActionConfirm        Action = "confirm"
)

// Conflict resolution strategies for create.
const (
	StrategySuggest    = "suggest"
	StrategyForce      = "force"
	StrategyReschedule = "reschedule"
)

// Recurrence describes a repeating event as sent by clients.
type Recurrence struct {
	Frequency string  `json:"frequency"`
	Interval  int     `json:"interval,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	Count     int     `json:"count,omitempty"`
}

// EventInput is the loosely specified event payload of a request. Pointer
// and nil-slice fields distinguish "absent" from an explicit zero value.
// swagger:model EventInput
type EventInput struct {
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	StartTime   string      `json:"startTime"`
	EndTime     *string     `json:"endTime,omitempty"`
	Duration    *int        `json:"duration,omitempty"`
	Location    *string     `json:"location,omitempty"`
	Attendees   []Attendee  `json:"attendees,omitempty"`
	Reminders   []int       `json:"reminders,omitempty"`
	AllDay      *bool       `json:"allDay,omitempty"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
}

// Preferences tune how a request is processed.
type Preferences struct {
	RequireConfirmation *bool `json:"requireConfirmation,omitempty"`
	CheckConflicts      *bool `json:"checkConflicts,omitempty"`
	SuggestAlternatives *bool `json:"suggestAlternatives,omitempty"`
	// UseTemplate names the event template to merge into the event.
	UseTemplate string `json:"useTemplate,omitempty"`
	// AutoOptimize moves a conflicting event to the best suggested slot.
	AutoOptimize *bool `json:"autoOptimize,omitempty"`
	// Timezone is stored on the integration by setup_oauth.
	Timezone string `json:"timezone,omitempty"`
}

// ConflictResolution tells create how to handle a detected conflict.
type ConflictResolution struct {
	Strategy        string  `json:"strategy"`
	AlternativeTime *string `json:"alternativeTime,omitempty"`
}

// CalendarRequest is the inbound request envelope.
// swagger:model CalendarRequest
type CalendarRequest struct {
	UserID             string              `json:"userId"`
	Action             Action              `json:"action"`
	EventData          *EventInput         `json:"eventData,omitempty"`
	Preferences        *Preferences        `json:"preferences,omitempty"`
	ConflictResolution *ConflictResolution `json:"conflictResolution,omitempty"`
	ConfirmationToken  string              `json:"confirmationToken,omitempty"`
}

// CalendarResponse is the outbound response envelope. Domain failures are
// reported with Success false; callers must check Success, not the HTTP status.
// swagger:model CalendarResponse
type CalendarResponse struct {
	Success              bool         `json:"success"`
	Data                 any          `json:"data,omitempty"`
	Conflicts            []Conflict   `json:"conflicts,omitempty"`
	Suggestions          []Suggestion `json:"suggestions,omitempty"`
	Message              string       `json:"message,omitempty"`
	Error                string       `json:"error,omitempty"`
	RequiresConfirmation bool         `json:"requiresConfirmation"`
	ConfirmationToken    string       `json:"confirmationToken,omitempty"`
}

// ConflictCheck is the data payload of a check_conflicts response.
type ConflictCheck struct {
	HasConflicts bool   `json:"hasConflicts"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// OAuthSetup is the data payload of a setup_oauth response.
type OAuthSetup struct {
	AuthURL       string `json:"authUrl"`
	IntegrationID string `json:"integrationId"`
	Created       bool   `json:"created"`
}

// CalendarService dispatches calendar requests. A returned error means the
// request could not be handled at all (unsupported action or a failed write).
type CalendarService interface {
	Handle(ctx context.Context, req *CalendarRequest) (*CalendarResponse, error)
}
