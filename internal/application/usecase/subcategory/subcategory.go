// Package subcategory contains the subcategory use cases.
package subcategory

import (
	"context"
	"log/slog"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// Service is the subcategory adapter.
type Service struct {
	dispatcher *storage.Dispatcher
	remote     adapter.SubcategoryGateway
}

// NewService creates a new subcategory Service instance.
func NewService(dispatcher *storage.Dispatcher, remote adapter.SubcategoryGateway) *Service {
	return &Service{
		dispatcher: dispatcher,
		remote:     remote,
	}
}

// List returns the subcategories of a family.
func (s *Service) List(ctx context.Context, familyID string) ([]*entity.Subcategory, error) {
	if familyID == "" {
		return []*entity.Subcategory{}, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.Subcategory, error) {
			return s.remote.ListSubcategories(ctx, familyID)
		},
		func(ctx context.Context) ([]*entity.Subcategory, error) {
			return storage.LocalListBy[entity.Subcategory](ctx, s.dispatcher.Local(), adapter.CollectionSubcategories, adapter.IndexFamilyID, familyID)
		},
	)
}

// Create stores a new subcategory.
func (s *Service) Create(ctx context.Context, familyID, name string, categoryKey valueobject.CategoryKey) (*entity.Subcategory, error) {
	if familyID == "" {
		return nil, nil
	}

	mode := s.dispatcher.Resolve(ctx, familyID)
	sub := entity.NewSubcategory(familyID, name, categoryKey, mode.Offline)
	if err := validation.Struct(sub); err != nil {
		return nil, err
	}

	return s.write(ctx, entity.SyncActionInsert, sub, s.remote.CreateSubcategory)
}

// Update renames a subcategory or moves it to another category. A missing subcategory is a no-op.
func (s *Service) Update(ctx context.Context, familyID, id string, name *string, categoryKey *valueobject.CategoryKey) (*entity.Subcategory, error) {
	if familyID == "" {
		return nil, nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntitySubcategory, id)
	defer unlock()

	sub, err := storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.Subcategory, error) {
			return s.remote.GetSubcategory(ctx, id)
		},
		func(ctx context.Context) (*entity.Subcategory, error) {
			return storage.LocalGet[entity.Subcategory](ctx, s.dispatcher.Local(), adapter.CollectionSubcategories, id)
		},
	)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		slog.Debug("Subcategory not found, skipping update", "subcategory_id", id, "family_id", familyID)
		return nil, nil
	}

	if name != nil {
		sub.Name = *name
	}
	if categoryKey != nil {
		sub.CategoryKey = *categoryKey
	}
	if err := validation.Struct(sub); err != nil {
		return nil, err
	}

	return s.write(ctx, entity.SyncActionUpdate, sub, s.remote.UpdateSubcategory)
}

// Delete removes a subcategory.
func (s *Service) Delete(ctx context.Context, familyID, id string) error {
	if familyID == "" {
		return nil
	}

	tomb := entity.NewTombstone(entity.SyncEntitySubcategory, id)
	_, err := storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.remote.DeleteSubcategory(ctx, id)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.dispatcher.Local().Delete(ctx, adapter.CollectionSubcategories, id)
		},
	})
	return err
}

func (s *Service) write(ctx context.Context, action entity.SyncAction, sub *entity.Subcategory, remote func(context.Context, *entity.Subcategory) error) (*entity.Subcategory, error) {
	return storage.Mutate(ctx, s.dispatcher, sub.FamilyID, storage.Write[*entity.Subcategory]{
		Action: action,
		Remote: func(ctx context.Context) (*entity.Subcategory, error) {
			return sub, remote(ctx, sub)
		},
		Local: func(ctx context.Context) (*entity.Subcategory, error) {
			return sub, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionSubcategories, sub)
		},
	})
}
