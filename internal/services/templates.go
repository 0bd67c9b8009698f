package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"wellnesscal/internal/domain"
)

// TemplateApplicator merges a named template's defaults into event input.
type TemplateApplicator struct {
	templates domain.TemplateRepository
	logger    *slog.Logger
}

func NewTemplateApplicator(templates domain.TemplateRepository, logger *slog.Logger) *TemplateApplicator {
	return &TemplateApplicator{templates: templates, logger: logger}
}

// Apply returns a copy of in with the template's defaults filled into the
// fields the caller left unset. A missing or inactive template, or a failed
// lookup, leaves the input unchanged.
func (a *TemplateApplicator) Apply(ctx context.Context, userID, name string, in *domain.EventInput) *domain.EventInput {
	name = strings.TrimSpace(name)
	if name == "" || in == nil {
		return in
	}
	tmpl, err := a.templates.GetByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.logger.InfoContext(ctx, "event template not found", "user_id", userID, "template", name)
		} else {
			a.logger.WarnContext(ctx, "event template lookup failed", "user_id", userID, "template", name, "err", err)
		}
		return in
	}
	if !tmpl.IsActive {
		a.logger.InfoContext(ctx, "event template inactive", "user_id", userID, "template", name)
		return in
	}
	return applyTemplate(tmpl, in)
}

func applyTemplate(tmpl *domain.EventTemplate, in *domain.EventInput) *domain.EventInput {
	out := *in
	if out.Description == nil && tmpl.Description != "" {
		d := tmpl.Description
		out.Description = &d
	}
	if out.Location == nil && tmpl.Location != "" {
		l := tmpl.Location
		out.Location = &l
	}
	if out.Reminders == nil && len(tmpl.Reminders) > 0 {
		out.Reminders = append([]int(nil), tmpl.Reminders...)
	}
	// the length is unset only when neither an end nor a duration was given
	if out.EndTime == nil && out.Duration == nil && tmpl.Duration > 0 {
		d := tmpl.Duration
		out.Duration = &d
	}
	return &out
}
