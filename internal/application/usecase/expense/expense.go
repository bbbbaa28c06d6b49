// Package expense contains the expense use cases.
package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/application/usecase/consistency"
	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// InsertExpenseInput represents the input for expense creation.
type InsertExpenseInput struct {
	FamilyID           string
	MonthID            string
	Title              string
	CategoryKey        valueobject.CategoryKey
	SubcategoryID      *string
	Value              decimal.Decimal
	IsRecurring        bool
	IsPending          bool
	DueDay             *int
	RecurringExpenseID *string
	InstallmentCurrent *int
	InstallmentTotal   *int
}

// UpdateExpenseInput represents a partial expense update. Nil fields are left unchanged.
type UpdateExpenseInput struct {
	FamilyID      string
	ID            string
	Title         *string
	CategoryKey   *valueobject.CategoryKey
	SubcategoryID **string
	Value         *decimal.Decimal
	IsPending     *bool
	DueDay        *int
}

// ErrGoalLink marks a failure to reconcile the automatic goal entry after the expense
// itself was written.
var ErrGoalLink = errors.New("expense saved but its goal entry was not reconciled")

// GoalLinker keeps automatic goal entries in step with expenses.
type GoalLinker interface {
	OnCreate(ctx context.Context, expense *entity.Expense) error
	OnUpdate(ctx context.Context, expense *entity.Expense) error
	OnDelete(ctx context.Context, familyID, expenseID string) error
}

var _ GoalLinker = (*consistency.Linker)(nil)

// Service is the expense adapter.
type Service struct {
	dispatcher *storage.Dispatcher
	remote     adapter.ExpenseGateway
	linker     GoalLinker
}

// NewService creates a new expense Service instance.
func NewService(dispatcher *storage.Dispatcher, remote adapter.ExpenseGateway, linker GoalLinker) *Service {
	return &Service{
		dispatcher: dispatcher,
		remote:     remote,
		linker:     linker,
	}
}

// ListExpenses returns the expenses of a month.
func (s *Service) ListExpenses(ctx context.Context, familyID, monthID string) ([]*entity.Expense, error) {
	if familyID == "" {
		return []*entity.Expense{}, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.Expense, error) {
			return s.remote.ListExpenses(ctx, familyID, monthID)
		},
		func(ctx context.Context) ([]*entity.Expense, error) {
			return storage.LocalListBy[entity.Expense](ctx, s.dispatcher.Local(), adapter.CollectionExpenses, adapter.IndexMonthID, monthID)
		},
	)
}

// GetExpense returns an expense, or nil when it does not exist.
func (s *Service) GetExpense(ctx context.Context, familyID, id string) (*entity.Expense, error) {
	if familyID == "" {
		return nil, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.Expense, error) {
			return s.remote.GetExpense(ctx, id)
		},
		func(ctx context.Context) (*entity.Expense, error) {
			return storage.LocalGet[entity.Expense](ctx, s.dispatcher.Local(), adapter.CollectionExpenses, id)
		},
	)
}

// InsertExpense stores a new expense and creates its automatic goal entry when linked.
// When only the goal entry fails, the stored expense is returned along with an error
// wrapping ErrGoalLink.
func (s *Service) InsertExpense(ctx context.Context, input InsertExpenseInput) (*entity.Expense, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	mode := s.dispatcher.Resolve(ctx, input.FamilyID)
	expense := entity.NewExpense(input.FamilyID, input.MonthID, input.Title, input.CategoryKey, input.Value, mode.Offline)
	expense.SubcategoryID = nonEmpty(input.SubcategoryID)
	expense.IsRecurring = input.IsRecurring
	expense.IsPending = input.IsPending
	expense.DueDay = input.DueDay
	expense.RecurringExpenseID = input.RecurringExpenseID
	expense.InstallmentCurrent = input.InstallmentCurrent
	expense.InstallmentTotal = input.InstallmentTotal

	if err := validation.Struct(expense); err != nil {
		return nil, err
	}

	created, err := storage.Mutate(ctx, s.dispatcher, input.FamilyID, storage.Write[*entity.Expense]{
		Action: entity.SyncActionInsert,
		Remote: func(ctx context.Context) (*entity.Expense, error) {
			return expense, s.remote.CreateExpense(ctx, expense)
		},
		Local: func(ctx context.Context) (*entity.Expense, error) {
			return expense, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionExpenses, expense)
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.linker.OnCreate(ctx, created); err != nil {
		return created, fmt.Errorf("%w: %w", ErrGoalLink, err)
	}

	return created, nil
}

// UpdateExpense applies a partial update and reconciles the automatic goal entry.
// Like InsertExpense, it returns the saved expense with an ErrGoalLink error when only
// the reconciliation fails.
// A missing expense is a no-op.
func (s *Service) UpdateExpense(ctx context.Context, input UpdateExpenseInput) (*entity.Expense, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntityExpense, input.ID)
	defer unlock()

	expense, err := s.GetExpense(ctx, input.FamilyID, input.ID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		slog.Debug("Expense not found, skipping update", "expense_id", input.ID, "family_id", input.FamilyID)
		return nil, nil
	}

	if input.Title != nil {
		expense.Title = *input.Title
	}
	if input.CategoryKey != nil {
		expense.CategoryKey = *input.CategoryKey
	}
	if input.SubcategoryID != nil {
		expense.SubcategoryID = nonEmpty(*input.SubcategoryID)
	}
	if input.Value != nil {
		expense.Value = *input.Value
	}
	if input.IsPending != nil {
		expense.IsPending = *input.IsPending
	}
	if input.DueDay != nil {
		expense.DueDay = input.DueDay
	}

	return s.save(ctx, expense)
}

// SetExpensePending flips the pending flag. A pending expense has no automatic goal entry.
func (s *Service) SetExpensePending(ctx context.Context, familyID, id string, pending bool) (*entity.Expense, error) {
	return s.UpdateExpense(ctx, UpdateExpenseInput{FamilyID: familyID, ID: id, IsPending: &pending})
}

// DeleteExpense removes an expense and its automatic goal entry. An error wrapping
// ErrGoalLink means the expense is gone but its entry may remain.
func (s *Service) DeleteExpense(ctx context.Context, familyID, id string) error {
	if familyID == "" {
		return nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntityExpense, id)
	defer unlock()

	tomb := entity.NewTombstone(entity.SyncEntityExpense, id)
	_, err := storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.remote.DeleteExpense(ctx, id)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.dispatcher.Local().Delete(ctx, adapter.CollectionExpenses, id)
		},
	})
	if err != nil {
		return err
	}

	if err := s.linker.OnDelete(ctx, familyID, id); err != nil {
		return fmt.Errorf("%w: %w", ErrGoalLink, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, expense *entity.Expense) (*entity.Expense, error) {
	expense.UpdatedAt = time.Now().UTC()

	if err := validation.Struct(expense); err != nil {
		return nil, err
	}

	updated, err := storage.Mutate(ctx, s.dispatcher, expense.FamilyID, storage.Write[*entity.Expense]{
		Action: entity.SyncActionUpdate,
		Remote: func(ctx context.Context) (*entity.Expense, error) {
			return expense, s.remote.UpdateExpense(ctx, expense)
		},
		Local: func(ctx context.Context) (*entity.Expense, error) {
			return expense, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionExpenses, expense)
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.linker.OnUpdate(ctx, updated); err != nil {
		return updated, fmt.Errorf("%w: %w", ErrGoalLink, err)
	}

	return updated, nil
}

func nonEmpty(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
