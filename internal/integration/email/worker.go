// Package email provides email sending functionality.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/integration/email/templates"
)

// Worker delivers queued emails. NotifyInvitation only writes a job to the queue, so
// invitation requests never wait on the email provider and a restart loses nothing.
type Worker struct {
	queue      adapter.EmailQueue
	sender     adapter.EmailSender
	renderer   *templates.Renderer
	appBaseURL string

	pollInterval time.Duration
	batchSize    int
	maxAttempts  int
	retention    time.Duration
	lastPurge    time.Time
	now          func() time.Time
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	// Retention is how long sent jobs are kept before they are purged.
	Retention  time.Duration
	AppBaseURL string
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
		MaxAttempts:  3,
		Retention:    7 * 24 * time.Hour,
	}
}

// NewWorker creates a new email worker.
func NewWorker(queue adapter.EmailQueue, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	return &Worker{
		queue:        queue,
		sender:       sender,
		renderer:     renderer,
		appBaseURL:   config.AppBaseURL,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
		maxAttempts:  config.MaxAttempts,
		retention:    config.Retention,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// NotifyInvitation implements adapter.InvitationNotifier.
func (w *Worker) NotifyInvitation(ctx context.Context, notice adapter.InvitationNotice) error {
	job := entity.NewEmailJob(entity.EmailTemplateFamilyInvitation, notice.InviteeEmail, map[string]string{
		"inviter_email": notice.InviterEmail,
		"family_name":   notice.FamilyName,
		"invite_url":    fmt.Sprintf("%s/invitations/%s", w.appBaseURL, notice.InvitationID),
		"expires_in":    notice.ExpiresIn,
	}, w.maxAttempts, w.now())
	job.ReplyTo = notice.InviterEmail
	job.RefID = notice.InvitationID

	if err := w.queue.Enqueue(ctx, job); err != nil {
		return err
	}

	slog.Debug("Invitation email queued", "job_id", job.ID, "invitation_id", notice.InvitationID)
	return nil
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
		"max_attempts", w.maxAttempts,
	)

	// Jobs claimed by a process that died mid-send would otherwise never be retried.
	if n, err := w.queue.Requeue(ctx); err != nil {
		slog.Error("Failed to requeue interrupted email jobs", "error", err)
	} else if n > 0 {
		slog.Info("Requeued interrupted email jobs", "count", n)
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
			w.purge(ctx)
		}
	}
}

// ProcessNow processes every job that is due now (useful for testing).
func (w *Worker) ProcessNow(ctx context.Context) {
	w.processBatch(ctx)
}

// processBatch fetches and processes a batch of due jobs.
func (w *Worker) processBatch(ctx context.Context) {
	jobs, err := w.queue.Due(ctx, w.now(), w.batchSize)
	if err != nil {
		slog.Error("Failed to get due email jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	slog.Debug("Processing email batch", "count", len(jobs))

	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		w.processJob(ctx, job)
	}
}

// processJob makes one delivery attempt for job.
func (w *Worker) processJob(ctx context.Context, job *entity.EmailJob) {
	logger := slog.With(
		"job_id", job.ID,
		"template", job.Template,
		"recipient", job.Recipient,
	)

	job.MarkProcessing()
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark email job as processing", "error", err)
		return
	}

	msg, err := w.render(job)
	if err != nil {
		logger.Error("Failed to render email", "error", err)
		w.handleFailure(ctx, job, err, true)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.Recipient,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: job.ReplyTo,
		RefID:   job.RefID,
		Tags:    map[string]string{"category": string(job.Template)},
	})
	if err != nil {
		var emailErr *domainerror.EmailError
		permanent := errors.As(err, &emailErr) && emailErr.Code == domainerror.ErrCodePermanentEmailFailure
		w.handleFailure(ctx, job, err, permanent)
		return
	}

	job.MarkSent(result.MessageID, w.now())
	if err := w.queue.Update(ctx, job); err != nil {
		logger.Error("Failed to mark email job as sent", "error", err)
		return
	}

	logger.Info("Email sent successfully", "message_id", result.MessageID, "attempts", job.Attempts)
}

func (w *Worker) render(job *entity.EmailJob) (*templates.Message, error) {
	switch job.Template {
	case entity.EmailTemplateFamilyInvitation:
		return w.renderer.Render(templates.FamilyInvitation, templates.InvitationData{
			InviterEmail: job.Data["inviter_email"],
			FamilyName:   job.Data["family_name"],
			InviteURL:    job.Data["invite_url"],
			ExpiresIn:    job.Data["expires_in"],
		})
	default:
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeUnknownEmailTemplate,
			string(job.Template),
			domainerror.ErrUnknownEmailTemplate,
		)
	}
}

func (w *Worker) handleFailure(ctx context.Context, job *entity.EmailJob, err error, permanent bool) {
	job.MarkFailed(err, permanent, w.now())

	if updateErr := w.queue.Update(ctx, job); updateErr != nil {
		slog.Error("Failed to update email job after failure", "job_id", job.ID, "error", updateErr)
	}

	if job.Status == entity.EmailStatusFailed {
		slog.Warn("Email permanently failed",
			"job_id", job.ID,
			"attempts", job.Attempts,
			"permanent", permanent,
			"error", err,
		)
		return
	}
	slog.Info("Email scheduled for retry",
		"job_id", job.ID,
		"attempts", job.Attempts,
		"scheduled_at", job.ScheduledAt,
		"error", err,
	)
}

// purge drops old sent jobs at most once an hour.
func (w *Worker) purge(ctx context.Context) {
	now := w.now()
	if w.retention <= 0 || now.Sub(w.lastPurge) < time.Hour {
		return
	}
	w.lastPurge = now

	removed, err := w.queue.PurgeSent(ctx, now.Add(-w.retention))
	if err != nil {
		slog.Error("Failed to purge sent email jobs", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("Purged sent email jobs", "count", removed)
	}
}

var _ adapter.InvitationNotifier = (*Worker)(nil)
