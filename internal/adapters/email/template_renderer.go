package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"tjbot/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// maxSubjectLen keeps alert subjects readable in inbox listings.
const maxSubjectLen = 120

var templateFuncs = map[string]any{
	"timestamp": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"command": func(command, subcommand string) string {
		return strings.TrimSpace(command + " " + subcommand)
	},
}

// templateRenderer renders alert mail from the embedded templates. Each template name maps to
// <name>_subject.txt, <name>.txt and <name>.html.
type templateRenderer struct {
	text *template.Template
	html *htmltemplate.Template
}

// NewTemplateRenderer parses the embedded alert templates.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{
		text: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.txt")),
		html: htmltemplate.Must(htmltemplate.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")),
	}
}

func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err := r.execText(&buf, templateName+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	subject = singleLine(buf.String())

	buf.Reset()
	if err := r.execText(&buf, templateName+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	textBody = buf.String()

	buf.Reset()
	t := r.html.Lookup(templateName + ".html")
	if t == nil {
		return "", "", "", fmt.Errorf("render html: %w: no template %q", domain.ErrInvalidInput, templateName)
	}
	if err := t.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	return subject, buf.String(), textBody, nil
}

func (r *templateRenderer) execText(buf *bytes.Buffer, name string, data any) error {
	t := r.text.Lookup(name)
	if t == nil {
		return fmt.Errorf("%w: no template %q", domain.ErrInvalidInput, name)
	}
	return t.Execute(buf, data)
}

// singleLine folds a rendered subject onto one line so error text cannot add mail headers.
func singleLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSubjectLen {
		s = s[:maxSubjectLen-3] + "..."
	}
	return s
}
