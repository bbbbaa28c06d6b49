package localstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/family-budget/backend/internal/domain/entity"
)

// syncQueue implements the adapter.SyncQueue interface.
type syncQueue struct {
	db *gorm.DB
}

// Add appends an item to the queue.
func (q *syncQueue) Add(ctx context.Context, item *entity.SyncQueueItem) error {
	return q.db.WithContext(ctx).Create(SyncQueueFromEntity(item)).Error
}

// GetAll returns every queued item, oldest first.
func (q *syncQueue) GetAll(ctx context.Context) ([]*entity.SyncQueueItem, error) {
	var models []SyncQueueModel
	if err := q.db.WithContext(ctx).Order("seq ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toItems(models), nil
}

// GetByFamily returns the queued items of a family, oldest first.
func (q *syncQueue) GetByFamily(ctx context.Context, familyID string) ([]*entity.SyncQueueItem, error) {
	var models []SyncQueueModel
	result := q.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("seq ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toItems(models), nil
}

// Remove deletes a queued item.
func (q *syncQueue) Remove(ctx context.Context, id string) error {
	return q.db.WithContext(ctx).Where("id = ?", id).Delete(&SyncQueueModel{}).Error
}

// Clear empties the queue.
func (q *syncQueue) Clear(ctx context.Context) error {
	return q.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&SyncQueueModel{}).Error
}

func toItems(models []SyncQueueModel) []*entity.SyncQueueItem {
	items := make([]*entity.SyncQueueItem, len(models))
	for i := range models {
		items[i] = models[i].ToEntity()
	}
	return items
}
