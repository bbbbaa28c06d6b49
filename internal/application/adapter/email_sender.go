// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Subject string
	HTML    string
	Text    string

	// ReplyTo lets the invitee answer the inviting member directly.
	ReplyTo string
	// RefID identifies the record the email is about. Providers use it to keep
	// repeated sends for the same record out of one thread.
	RefID string
	// Tags are attached to the message for provider side filtering.
	Tags map[string]string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	MessageID string
}

// EmailSender delivers a rendered email through an external provider.
type EmailSender interface {
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// InvitationNotice carries what the invitee needs to know about an invitation.
type InvitationNotice struct {
	InvitationID string
	FamilyName   string
	InviterEmail string
	InviteeEmail string
	ExpiresIn    string
}

// InvitationNotifier tells an invitee about a new invitation. Delivery is best-effort.
type InvitationNotifier interface {
	NotifyInvitation(ctx context.Context, notice InvitationNotice) error
}
