package templates

import (
	"strings"
	"testing"
)

func TestRenderer_FamilyInvitation(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, err := r.Render(FamilyInvitation, InvitationData{
		InviterEmail: "ana@example.com",
		FamilyName:   "Silva <3",
		InviteURL:    "https://budget.example.com/invitations/inv-1",
		ExpiresIn:    "7 days",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Subject != "ana@example.com invited you to Silva <3" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Silva &lt;3") {
		t.Error("expected the HTML body to escape the family name")
	}
	if !strings.Contains(msg.Text, "Silva <3") || !strings.Contains(msg.Text, "7 days") {
		t.Errorf("unexpected text body:\n%s", msg.Text)
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Render("password_reset", nil); err == nil {
		t.Error("expected an error for an unknown template")
	}
}
