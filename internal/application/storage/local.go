package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
)

// LocalGet decodes the record with the given id, or returns nil when absent.
func LocalGet[T any](ctx context.Context, store adapter.LocalStore, collection adapter.Collection, id string) (*T, error) {
	raw, err := store.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s record %s: %w", collection, id, err)
	}
	return &record, nil
}

// LocalList decodes every record of the collection.
func LocalList[T any](ctx context.Context, store adapter.LocalStore, collection adapter.Collection) ([]*T, error) {
	raws, err := store.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](collection, raws)
}

// LocalListBy decodes the records whose index field equals value.
func LocalListBy[T any](ctx context.Context, store adapter.LocalStore, collection adapter.Collection, index adapter.Index, value string) ([]*T, error) {
	raws, err := store.GetAllByIndex(ctx, collection, index, value)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](collection, raws)
}

// LocalPut encodes and upserts a record.
func LocalPut(ctx context.Context, store adapter.LocalStore, collection adapter.Collection, record entity.Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s record %s: %w", collection, record.RecordID(), err)
	}
	return store.Put(ctx, collection, record.RecordID(), raw)
}

// LocalDeleteBy removes every record whose index field equals value.
func LocalDeleteBy(ctx context.Context, store adapter.LocalStore, collection adapter.Collection, index adapter.Index, value string) error {
	raws, err := store.GetAllByIndex(ctx, collection, index, value)
	if err != nil {
		return err
	}

	for _, raw := range raws {
		var key struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &key); err != nil {
			return fmt.Errorf("failed to decode %s record: %w", collection, err)
		}
		if err := store.Delete(ctx, collection, key.ID); err != nil {
			return err
		}
	}
	return nil
}

func decodeAll[T any](collection adapter.Collection, raws []json.RawMessage) ([]*T, error) {
	records := make([]*T, 0, len(raws))
	for _, raw := range raws {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", collection, err)
		}
		records = append(records, &record)
	}
	return records, nil
}
