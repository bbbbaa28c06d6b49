package localstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
)

// emailQueue implements the adapter.EmailQueue interface on the local database.
type emailQueue struct {
	db *gorm.DB
}

// NewEmailQueue creates an email queue on db. The tables must already be migrated.
func NewEmailQueue(db *gorm.DB) adapter.EmailQueue {
	return &emailQueue{db: db}
}

// Enqueue stores a new job.
func (q *emailQueue) Enqueue(ctx context.Context, job *entity.EmailJob) error {
	model, err := EmailJobFromEntity(job)
	if err == nil {
		err = q.db.WithContext(ctx).Create(model).Error
	}
	if err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue email",
			err,
		)
	}
	return nil
}

// Due returns pending jobs scheduled at or before now, oldest first.
func (q *emailQueue) Due(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	var models []EmailJobModel
	result := q.db.WithContext(ctx).
		Where("status = ?", string(entity.EmailStatusPending)).
		Where("scheduled_at <= ?", now).
		Order("scheduled_at ASC, created_at ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toJobs(models), nil
}

// Update saves the state of a job.
func (q *emailQueue) Update(ctx context.Context, job *entity.EmailJob) error {
	model, err := EmailJobFromEntity(job)
	if err != nil {
		return err
	}
	return q.db.WithContext(ctx).Save(model).Error
}

// ByRef returns the jobs sent about one record, newest first.
func (q *emailQueue) ByRef(ctx context.Context, refID string) ([]*entity.EmailJob, error) {
	var models []EmailJobModel
	result := q.db.WithContext(ctx).
		Where("ref_id = ?", refID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toJobs(models), nil
}

// PurgeSent deletes sent jobs processed before cutoff.
func (q *emailQueue) PurgeSent(ctx context.Context, cutoff time.Time) (int64, error) {
	result := q.db.WithContext(ctx).
		Where("status = ?", string(entity.EmailStatusSent)).
		Where("processed_at < ?", cutoff).
		Delete(&EmailJobModel{})
	return result.RowsAffected, result.Error
}

// Requeue puts jobs left in processing back to pending.
func (q *emailQueue) Requeue(ctx context.Context) (int64, error) {
	result := q.db.WithContext(ctx).
		Model(&EmailJobModel{}).
		Where("status = ?", string(entity.EmailStatusProcessing)).
		Update("status", string(entity.EmailStatusPending))
	return result.RowsAffected, result.Error
}

func toJobs(models []EmailJobModel) []*entity.EmailJob {
	jobs := make([]*entity.EmailJob, len(models))
	for i := range models {
		jobs[i] = models[i].ToEntity()
	}
	return jobs
}
