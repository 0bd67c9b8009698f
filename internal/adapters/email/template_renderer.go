package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"wellnesscal/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

var funcs = map[string]any{
	"when": formatWhen,
}

// templateRenderer implements domain.EmailTemplateRenderer using embedded template files.
type templateRenderer struct{}

// NewTemplateRenderer returns an EmailTemplateRenderer that loads templates from the embedded templates folder.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{}
}

// Render executes the named template (e.g. "event_invitation") with data and returns subject, html, and text bodies.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = r.renderFile(templateName+"_subject.txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = r.renderFile(templateName+".html", data, true)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.renderFile(templateName+".txt", data, false)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func (r *templateRenderer) renderFile(name string, data any, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if html {
		t, err := template.New(name).Funcs(template.FuncMap(funcs)).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	} else {
		t, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(funcs)).Parse(string(raw))
		if err != nil {
			return "", err
		}
		if err := t.Execute(&buf, data); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// formatWhen renders the event time range for humans.
func formatWhen(start, end time.Time, allDay bool) string {
	if allDay {
		last := end.Add(-24 * time.Hour)
		if !last.After(start) {
			return start.Format("Mon, 2 Jan 2006") + " (all day)"
		}
		return start.Format("Mon, 2 Jan 2006") + " to " + last.Format("Mon, 2 Jan 2006") + " (all day)"
	}
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return start.Format("Mon, 2 Jan 2006 15:04") + " - " + end.Format("15:04 MST")
	}
	return start.Format("Mon, 2 Jan 2006 15:04") + " - " + end.Format("Mon, 2 Jan 2006 15:04 MST")
}
