package services

import (
	"context"
	"fmt"
	"log/slog"

	"wellnesscal/internal/domain"
)

const invitationTemplate = "event_invitation"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EventNotifier that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EventNotifier {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendEventInvitations sends the "event_invitation" template to each attendee.
// Failures are logged and collected; they never abort the remaining sends.
func (s *emailService) SendEventInvitations(ctx context.Context, e *domain.Event) (int, []string) {
	sent := 0
	var failed []string
	for _, a := range e.Attendees {
		data := &domain.EventInvitationEmailData{
			Email:       a.Email,
			Name:        a.Name,
			Title:       e.Title,
			Description: e.Description,
			Location:    e.Location,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			AllDay:      e.AllDay,
		}
		if err := s.sendInvitation(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "event invitation failed", "event_id", e.ID, "to", a.Email, "err", err)
			failed = append(failed, a.Email)
			continue
		}
		sent++
	}
	if sent > 0 {
		s.logger.InfoContext(ctx, "event invitations sent", "event_id", e.ID, "count", sent)
	}
	return sent, failed
}

func (s *emailService) sendInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	subject, htmlBody, textBody, err := s.renderer.Render(invitationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", invitationTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	return nil
}
