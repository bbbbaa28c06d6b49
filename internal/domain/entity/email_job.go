package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of a queued email.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplate names the template a queued email is rendered with.
type EmailTemplate string

const (
	EmailTemplateFamilyInvitation EmailTemplate = "family_invitation"
)

// emailRetryDelays is the wait before the second and third attempt.
var emailRetryDelays = []time.Duration{time.Minute, 5 * time.Minute}

// EmailJob is an email waiting in the outgoing queue. It is rendered when it is sent,
// so Data holds the template inputs rather than the body.
type EmailJob struct {
	ID          string
	Template    EmailTemplate
	Recipient   string
	ReplyTo     string
	RefID       string
	Data        map[string]string
	Status      EmailStatus
	Attempts    int
	MaxAttempts int
	LastError   string
	MessageID   string
	CreatedAt   time.Time
	ScheduledAt time.Time
	ProcessedAt *time.Time
}

// NewEmailJob creates a pending job that is due at now.
func NewEmailJob(template EmailTemplate, recipient string, data map[string]string, maxAttempts int, now time.Time) *EmailJob {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &EmailJob{
		ID:          uuid.NewString(),
		Template:    template,
		Recipient:   recipient,
		Data:        data,
		Status:      EmailStatusPending,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		ScheduledAt: now,
	}
}

// MarkProcessing claims the job for a send attempt.
func (j *EmailJob) MarkProcessing() {
	j.Status = EmailStatusProcessing
}

// MarkSent records a successful delivery.
func (j *EmailJob) MarkSent(messageID string, now time.Time) {
	j.Attempts++
	j.Status = EmailStatusSent
	j.MessageID = messageID
	j.LastError = ""
	j.ProcessedAt = &now
}

// MarkFailed records a failed attempt. The job goes back to pending with a later
// ScheduledAt unless the failure is permanent or the attempts are used up.
func (j *EmailJob) MarkFailed(err error, permanent bool, now time.Time) {
	j.Attempts++
	j.LastError = err.Error()

	if permanent || j.Attempts >= j.MaxAttempts {
		j.Status = EmailStatusFailed
		j.ProcessedAt = &now
		return
	}

	delay := emailRetryDelays[len(emailRetryDelays)-1]
	if j.Attempts-1 < len(emailRetryDelays) {
		delay = emailRetryDelays[j.Attempts-1]
	}
	j.Status = EmailStatusPending
	j.ScheduledAt = now.Add(delay)
}

// IsDue reports whether the job should be attempted at now.
func (j *EmailJob) IsDue(now time.Time) bool {
	return j.Status == EmailStatusPending && !now.Before(j.ScheduledAt)
}
