// Package recurring contains the recurring expense use cases.
package recurring

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// CreateInput represents the input for recurring expense creation.
type CreateInput struct {
	FamilyID      string
	Title         string
	CategoryKey   valueobject.CategoryKey
	SubcategoryID *string
	Value         decimal.Decimal
	DueDay        *int
	StartYear     int
	StartMonth    int
	Installments  *int
}

// UpdateInput represents a partial recurring expense update. Nil fields are left unchanged.
type UpdateInput struct {
	FamilyID      string
	ID            string
	Title         *string
	CategoryKey   *valueobject.CategoryKey
	SubcategoryID **string
	Value         *decimal.Decimal
	DueDay        *int
	StartYear     *int
	StartMonth    *int
	Installments  **int
}

// Service is the recurring expense adapter.
type Service struct {
	dispatcher *storage.Dispatcher
	remote     adapter.ExpenseGateway
}

// NewService creates a new recurring expense Service instance.
func NewService(dispatcher *storage.Dispatcher, remote adapter.ExpenseGateway) *Service {
	return &Service{
		dispatcher: dispatcher,
		remote:     remote,
	}
}

// List returns the recurring expenses of a family.
func (s *Service) List(ctx context.Context, familyID string) ([]*entity.RecurringExpense, error) {
	if familyID == "" {
		return []*entity.RecurringExpense{}, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.RecurringExpense, error) {
			return s.remote.ListRecurringExpenses(ctx, familyID)
		},
		func(ctx context.Context) ([]*entity.RecurringExpense, error) {
			return storage.LocalListBy[entity.RecurringExpense](ctx, s.dispatcher.Local(), adapter.CollectionRecurringExpenses, adapter.IndexFamilyID, familyID)
		},
	)
}

// Get returns a recurring expense, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, familyID, id string) (*entity.RecurringExpense, error) {
	if familyID == "" {
		return nil, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.RecurringExpense, error) {
			return s.remote.GetRecurringExpense(ctx, id)
		},
		func(ctx context.Context) (*entity.RecurringExpense, error) {
			return storage.LocalGet[entity.RecurringExpense](ctx, s.dispatcher.Local(), adapter.CollectionRecurringExpenses, id)
		},
	)
}

// Create stores a new recurring expense. Existing months are not back-filled.
func (s *Service) Create(ctx context.Context, input CreateInput) (*entity.RecurringExpense, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	mode := s.dispatcher.Resolve(ctx, input.FamilyID)
	expense := entity.NewRecurringExpense(input.FamilyID, input.Title, input.CategoryKey, input.Value, input.StartYear, input.StartMonth, mode.Offline)
	if input.SubcategoryID != nil && *input.SubcategoryID != "" {
		expense.SubcategoryID = input.SubcategoryID
	}
	expense.DueDay = input.DueDay
	expense.Installments = input.Installments

	if err := validation.Struct(expense); err != nil {
		return nil, err
	}

	return s.write(ctx, entity.SyncActionInsert, expense, s.remote.CreateRecurringExpense)
}

// Update applies a partial update. A missing recurring expense is a no-op.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*entity.RecurringExpense, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntityRecurringExpense, input.ID)
	defer unlock()

	expense, err := s.Get(ctx, input.FamilyID, input.ID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		slog.Debug("Recurring expense not found, skipping update", "recurring_expense_id", input.ID, "family_id", input.FamilyID)
		return nil, nil
	}

	if input.Title != nil {
		expense.Title = *input.Title
	}
	if input.CategoryKey != nil {
		expense.CategoryKey = *input.CategoryKey
	}
	if input.SubcategoryID != nil {
		expense.SubcategoryID = *input.SubcategoryID
		if expense.SubcategoryID != nil && *expense.SubcategoryID == "" {
			expense.SubcategoryID = nil
		}
	}
	if input.Value != nil {
		expense.Value = *input.Value
	}
	if input.DueDay != nil {
		expense.DueDay = input.DueDay
	}
	if input.StartYear != nil {
		expense.StartYear = *input.StartYear
	}
	if input.StartMonth != nil {
		expense.StartMonth = *input.StartMonth
	}
	if input.Installments != nil {
		expense.Installments = *input.Installments
	}
	expense.UpdatedAt = time.Now().UTC()

	if err := validation.Struct(expense); err != nil {
		return nil, err
	}

	return s.write(ctx, entity.SyncActionUpdate, expense, s.remote.UpdateRecurringExpense)
}

// Delete removes a recurring expense. Expenses already materialized from it are kept.
func (s *Service) Delete(ctx context.Context, familyID, id string) error {
	if familyID == "" {
		return nil
	}

	tomb := entity.NewTombstone(entity.SyncEntityRecurringExpense, id)
	_, err := storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.remote.DeleteRecurringExpense(ctx, id)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.dispatcher.Local().Delete(ctx, adapter.CollectionRecurringExpenses, id)
		},
	})
	return err
}

func (s *Service) write(ctx context.Context, action entity.SyncAction, expense *entity.RecurringExpense, remote func(context.Context, *entity.RecurringExpense) error) (*entity.RecurringExpense, error) {
	return storage.Mutate(ctx, s.dispatcher, expense.FamilyID, storage.Write[*entity.RecurringExpense]{
		Action: action,
		Remote: func(ctx context.Context) (*entity.RecurringExpense, error) {
			return expense, remote(ctx, expense)
		},
		Local: func(ctx context.Context) (*entity.RecurringExpense, error) {
			return expense, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionRecurringExpenses, expense)
		},
	})
}
