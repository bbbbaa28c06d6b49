package adapter

import (
	"context"
	"time"

	"github.com/family-budget/backend/internal/domain/entity"
)

// EmailQueue persists outgoing emails so they survive restarts.
type EmailQueue interface {
	// Enqueue stores a new job.
	Enqueue(ctx context.Context, job *entity.EmailJob) error

	// Due returns up to limit pending jobs scheduled at or before now, oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error)

	// Update saves the state of a job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// ByRef returns the jobs sent about one record, newest first.
	ByRef(ctx context.Context, refID string) ([]*entity.EmailJob, error)

	// PurgeSent deletes sent jobs processed before cutoff and returns how many were removed.
	PurgeSent(ctx context.Context, cutoff time.Time) (int64, error)

	// Requeue puts jobs left in processing by a crash back to pending.
	Requeue(ctx context.Context) (int64, error)
}
