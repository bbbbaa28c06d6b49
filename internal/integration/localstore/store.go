// Package localstore implements the on-device store as JSON documents in SQLite.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/family-budget/backend/internal/application/adapter"
)

// store implements the adapter.LocalStore interface.
type store struct {
	db    *gorm.DB
	queue *syncQueue
}

// NewStore creates a new local store on db. The tables must already be migrated.
func NewStore(db *gorm.DB) adapter.LocalStore {
	return &store{
		db:    db,
		queue: &syncQueue{db: db},
	}
}

// Migrate creates the local store tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate local store: %w", err)
	}
	return nil
}

// GetAll returns every record of the collection in insertion order.
func (s *store) GetAll(ctx context.Context, collection adapter.Collection) ([]json.RawMessage, error) {
	var models []RecordModel
	result := s.db.WithContext(ctx).
		Where("collection = ?", string(collection)).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRaw(models), nil
}

// GetAllByIndex returns the records whose JSON field index equals value.
func (s *store) GetAllByIndex(ctx context.Context, collection adapter.Collection, index adapter.Index, value string) ([]json.RawMessage, error) {
	var models []RecordModel
	result := s.db.WithContext(ctx).
		Where("collection = ? AND json_extract(data, ?) = ?", string(collection), "$."+string(index), value).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRaw(models), nil
}

// Get returns the record with the given id, or nil when absent.
func (s *store) Get(ctx context.Context, collection adapter.Collection, id string) (json.RawMessage, error) {
	var models []RecordModel
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", string(collection), id).
		Limit(1).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(models) == 0 {
		return nil, nil
	}
	return json.RawMessage(models[0].Data), nil
}

// Put inserts or replaces the record with the given id.
func (s *store) Put(ctx context.Context, collection adapter.Collection, id string, record json.RawMessage) error {
	if id == "" {
		return fmt.Errorf("local store: %s record without id", collection)
	}
	if !json.Valid(record) {
		return fmt.Errorf("local store: %s record %s is not valid JSON", collection, id)
	}

	now := time.Now().UTC()
	model := &RecordModel{
		Collection: string(collection),
		ID:         id,
		Data:       string(record),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(model)
	return result.Error
}

// Delete removes the record with the given id.
func (s *store) Delete(ctx context.Context, collection adapter.Collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", string(collection), id).
		Delete(&RecordModel{})
	return result.Error
}

// Clear removes every record of the collection.
func (s *store) Clear(ctx context.Context, collection adapter.Collection) error {
	result := s.db.WithContext(ctx).
		Where("collection = ?", string(collection)).
		Delete(&RecordModel{})
	return result.Error
}

// Sync returns the pending-sync queue.
func (s *store) Sync() adapter.SyncQueue {
	return s.queue
}

func toRaw(models []RecordModel) []json.RawMessage {
	records := make([]json.RawMessage, len(models))
	for i, m := range models {
		records[i] = json.RawMessage(m.Data)
	}
	return records
}
