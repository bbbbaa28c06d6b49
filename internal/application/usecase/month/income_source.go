package month

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/validation"
)

// ListIncomeSources returns the income sources of a month.
func (s *Service) ListIncomeSources(ctx context.Context, familyID, monthID string) ([]*entity.IncomeSource, error) {
	if familyID == "" {
		return []*entity.IncomeSource{}, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.IncomeSource, error) {
			return s.remote.ListIncomeSources(ctx, monthID)
		},
		func(ctx context.Context) ([]*entity.IncomeSource, error) {
			return storage.LocalListBy[entity.IncomeSource](ctx, s.dispatcher.Local(), adapter.CollectionIncomeSources, adapter.IndexMonthID, monthID)
		},
	)
}

// AddIncomeSource stores a new income source for a month.
func (s *Service) AddIncomeSource(ctx context.Context, familyID, monthID, name string, value decimal.Decimal) (*entity.IncomeSource, error) {
	if familyID == "" {
		return nil, nil
	}

	mode := s.dispatcher.Resolve(ctx, familyID)
	source := entity.NewIncomeSource(familyID, monthID, name, value, mode.Offline)
	if err := validation.Struct(source); err != nil {
		return nil, err
	}

	return s.writeIncomeSource(ctx, entity.SyncActionInsert, source, s.remote.CreateIncomeSource)
}

// UpdateIncomeSource changes the name or value of an income source. A missing source is a no-op.
func (s *Service) UpdateIncomeSource(ctx context.Context, familyID, id string, name *string, value *decimal.Decimal) (*entity.IncomeSource, error) {
	if familyID == "" {
		return nil, nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntityIncomeSource, id)
	defer unlock()

	source, err := storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.IncomeSource, error) {
			return s.remote.GetIncomeSource(ctx, id)
		},
		func(ctx context.Context) (*entity.IncomeSource, error) {
			return storage.LocalGet[entity.IncomeSource](ctx, s.dispatcher.Local(), adapter.CollectionIncomeSources, id)
		},
	)
	if err != nil {
		return nil, err
	}
	if source == nil {
		slog.Debug("Income source not found, skipping update", "income_source_id", id, "family_id", familyID)
		return nil, nil
	}

	if name != nil {
		source.Name = *name
	}
	if value != nil {
		source.Value = *value
	}
	if err := validation.Struct(source); err != nil {
		return nil, err
	}

	return s.writeIncomeSource(ctx, entity.SyncActionUpdate, source, s.remote.UpdateIncomeSource)
}

// DeleteIncomeSource removes an income source.
func (s *Service) DeleteIncomeSource(ctx context.Context, familyID, id string) error {
	if familyID == "" {
		return nil
	}

	tomb := entity.NewTombstone(entity.SyncEntityIncomeSource, id)
	_, err := storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.remote.DeleteIncomeSource(ctx, id)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.dispatcher.Local().Delete(ctx, adapter.CollectionIncomeSources, id)
		},
	})
	return err
}

func (s *Service) writeIncomeSource(ctx context.Context, action entity.SyncAction, source *entity.IncomeSource, remote func(context.Context, *entity.IncomeSource) error) (*entity.IncomeSource, error) {
	return storage.Mutate(ctx, s.dispatcher, source.FamilyID, storage.Write[*entity.IncomeSource]{
		Action: action,
		Remote: func(ctx context.Context) (*entity.IncomeSource, error) {
			return source, remote(ctx, source)
		},
		Local: func(ctx context.Context) (*entity.IncomeSource, error) {
			return source, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionIncomeSources, source)
		},
	})
}
