package goal

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/validation"
)

// EntryOptions controls access to automatic entries.
type EntryOptions struct {
	// AllowAutomatic lets the caller change entries generated from an expense.
	// Only expense consistency maintenance sets it.
	AllowAutomatic bool
}

// CreateEntryInput represents the input for goal entry creation.
type CreateEntryInput struct {
	FamilyID    string
	GoalID      string
	Value       decimal.Decimal
	Description string
	Month       int
	Year        int
	// ExpenseID marks the entry as automatic.
	ExpenseID *string
}

// UpdateEntryInput represents a partial goal entry update. Nil fields are left unchanged.
type UpdateEntryInput struct {
	FamilyID    string
	ID          string
	GoalID      *string
	Value       *decimal.Decimal
	Description *string
	Month       *int
	Year        *int
}

// EntryService is the goal entry adapter.
type EntryService struct {
	dispatcher *storage.Dispatcher
	remote     adapter.GoalGateway
}

// NewEntryService creates a new EntryService instance.
func NewEntryService(dispatcher *storage.Dispatcher, remote adapter.GoalGateway) *EntryService {
	return &EntryService{
		dispatcher: dispatcher,
		remote:     remote,
	}
}

// ListEntries returns the entries of a goal.
func (s *EntryService) ListEntries(ctx context.Context, familyID, goalID string) ([]*entity.GoalEntry, error) {
	if familyID == "" {
		return []*entity.GoalEntry{}, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.GoalEntry, error) {
			return s.remote.ListGoalEntries(ctx, []string{goalID})
		},
		func(ctx context.Context) ([]*entity.GoalEntry, error) {
			return storage.LocalListBy[entity.GoalEntry](ctx, s.dispatcher.Local(), adapter.CollectionGoalEntries, adapter.IndexGoalID, goalID)
		},
	)
}

// GetEntry returns an entry, or nil when it does not exist.
func (s *EntryService) GetEntry(ctx context.Context, familyID, id string) (*entity.GoalEntry, error) {
	if familyID == "" {
		return nil, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.GoalEntry, error) {
			return s.remote.GetGoalEntry(ctx, id)
		},
		func(ctx context.Context) (*entity.GoalEntry, error) {
			return storage.LocalGet[entity.GoalEntry](ctx, s.dispatcher.Local(), adapter.CollectionGoalEntries, id)
		},
	)
}

// FindEntryByExpense returns the automatic entry generated from an expense, or nil.
func (s *EntryService) FindEntryByExpense(ctx context.Context, familyID, expenseID string) (*entity.GoalEntry, error) {
	if familyID == "" || expenseID == "" {
		return nil, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.GoalEntry, error) {
			return s.remote.FindGoalEntryByExpense(ctx, expenseID)
		},
		func(ctx context.Context) (*entity.GoalEntry, error) {
			entries, err := storage.LocalListBy[entity.GoalEntry](ctx, s.dispatcher.Local(), adapter.CollectionGoalEntries, adapter.IndexExpenseID, expenseID)
			if err != nil || len(entries) == 0 {
				return nil, err
			}
			return entries[0], nil
		},
	)
}

// CreateEntry stores a new entry.
func (s *EntryService) CreateEntry(ctx context.Context, input CreateEntryInput) (*entity.GoalEntry, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	mode := s.dispatcher.Resolve(ctx, input.FamilyID)
	entry := entity.NewGoalEntry(input.FamilyID, input.GoalID, input.Value, input.Description, input.Month, input.Year, mode.Offline)
	entry.ExpenseID = input.ExpenseID

	if err := validation.Struct(entry); err != nil {
		return nil, err
	}

	return storage.Mutate(ctx, s.dispatcher, input.FamilyID, storage.Write[*entity.GoalEntry]{
		Action: entity.SyncActionInsert,
		Remote: func(ctx context.Context) (*entity.GoalEntry, error) {
			return entry, s.remote.CreateGoalEntry(ctx, entry)
		},
		Local: func(ctx context.Context) (*entity.GoalEntry, error) {
			return entry, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionGoalEntries, entry)
		},
	})
}

// UpdateEntry applies a partial update. Automatic entries require opts.AllowAutomatic.
// A missing entry is a no-op.
func (s *EntryService) UpdateEntry(ctx context.Context, input UpdateEntryInput, opts EntryOptions) (*entity.GoalEntry, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntityGoalEntry, input.ID)
	defer unlock()

	entry, err := s.GetEntry(ctx, input.FamilyID, input.ID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		slog.Debug("Goal entry not found, skipping update", "entry_id", input.ID, "family_id", input.FamilyID)
		return nil, nil
	}
	if err := checkProtection(entry, opts); err != nil {
		return nil, err
	}

	if input.GoalID != nil {
		entry.GoalID = *input.GoalID
	}
	if input.Value != nil {
		entry.Value = *input.Value
	}
	if input.Description != nil {
		entry.Description = *input.Description
	}
	if input.Month != nil {
		entry.Month = *input.Month
	}
	if input.Year != nil {
		entry.Year = *input.Year
	}
	entry.UpdatedAt = time.Now().UTC()

	if err := validation.Struct(entry); err != nil {
		return nil, err
	}

	return storage.Mutate(ctx, s.dispatcher, input.FamilyID, storage.Write[*entity.GoalEntry]{
		Action: entity.SyncActionUpdate,
		Remote: func(ctx context.Context) (*entity.GoalEntry, error) {
			return entry, s.remote.UpdateGoalEntry(ctx, entry)
		},
		Local: func(ctx context.Context) (*entity.GoalEntry, error) {
			return entry, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionGoalEntries, entry)
		},
	})
}

// DeleteEntry removes an entry. Automatic entries require opts.AllowAutomatic.
// A missing entry is a no-op.
func (s *EntryService) DeleteEntry(ctx context.Context, familyID, id string, opts EntryOptions) error {
	if familyID == "" {
		return nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntityGoalEntry, id)
	defer unlock()

	entry, err := s.GetEntry(ctx, familyID, id)
	if err != nil {
		return err
	}
	if entry == nil {
		slog.Debug("Goal entry not found, skipping delete", "entry_id", id, "family_id", familyID)
		return nil
	}
	if err := checkProtection(entry, opts); err != nil {
		return err
	}

	tomb := entity.NewTombstone(entity.SyncEntityGoalEntry, id)
	_, err = storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.remote.DeleteGoalEntry(ctx, id)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.dispatcher.Local().Delete(ctx, adapter.CollectionGoalEntries, id)
		},
	})
	return err
}

func checkProtection(entry *entity.GoalEntry, opts EntryOptions) error {
	if entry.IsAutomatic() && !opts.AllowAutomatic {
		return domainerror.NewGoalError(
			domainerror.ErrCodeAutomaticEntry,
			"this entry was generated from an expense; edit the expense instead",
			domainerror.ErrAutomaticEntryProtected,
		)
	}
	return nil
}
