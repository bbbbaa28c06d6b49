// Package templates renders the emails the backend sends.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed *.html *.txt
var templateFS embed.FS

// FamilyInvitation is the template sent to an invitee.
const FamilyInvitation = "family_invitation"

// Message is a rendered email. Text is empty when the template has no plain version.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Renderer renders embedded templates. Each template is a name.html body with an
// optional name.txt plain body and a required name.subject.txt line.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML templates: %w", err)
	}

	text, err := texttemplate.ParseFS(templateFS, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	return &Renderer{html: html, text: text}, nil
}

// Render executes every part of the named template with data.
func (r *Renderer) Render(name string, data any) (*Message, error) {
	if r.html.Lookup(name+".html") == nil || r.text.Lookup(name+".subject.txt") == nil {
		return nil, fmt.Errorf("unknown email template %q", name)
	}

	var subject, html, text bytes.Buffer
	if err := r.text.ExecuteTemplate(&subject, name+".subject.txt", data); err != nil {
		return nil, fmt.Errorf("failed to render subject of %s: %w", name, err)
	}
	if err := r.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return nil, fmt.Errorf("failed to render HTML of %s: %w", name, err)
	}
	if r.text.Lookup(name+".txt") != nil {
		if err := r.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
			return nil, fmt.Errorf("failed to render text of %s: %w", name, err)
		}
	}

	return &Message{
		Subject: strings.TrimSpace(subject.String()),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// InvitationData contains data for the family invitation email template.
type InvitationData struct {
	InviterEmail string
	FamilyName   string
	InviteURL    string
	ExpiresIn    string
}
