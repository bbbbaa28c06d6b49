// Package consistency keeps automatic goal entries in step with the expenses they come from.
package consistency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/application/usecase/goal"
	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

var bypass = goal.EntryOptions{AllowAutomatic: true}

// Linker applies the expense to goal entry rules after every expense mutation.
type Linker struct {
	dispatcher *storage.Dispatcher
	goals      *goal.Service
	entries    *goal.EntryService
	months     adapter.MonthGateway
}

// NewLinker creates a new Linker instance.
func NewLinker(dispatcher *storage.Dispatcher, goals *goal.Service, entries *goal.EntryService, months adapter.MonthGateway) *Linker {
	return &Linker{
		dispatcher: dispatcher,
		goals:      goals,
		entries:    entries,
		months:     months,
	}
}

// OnCreate creates the automatic entry of a new expense when it is linked and not pending.
func (l *Linker) OnCreate(ctx context.Context, expense *entity.Expense) error {
	if expense == nil || expense.IsPending {
		return nil
	}

	linked, err := l.goals.FindLinkedGoal(ctx, expense.FamilyID, expense.SubcategoryID, expense.CategoryKey)
	if err != nil {
		return fmt.Errorf("failed to resolve linked goal: %w", err)
	}
	if linked == nil {
		return nil
	}

	return l.create(ctx, expense, linked)
}

// OnUpdate reconciles the automatic entry of an expense after an update or a pending-flag change.
func (l *Linker) OnUpdate(ctx context.Context, expense *entity.Expense) error {
	if expense == nil {
		return nil
	}

	existing, err := l.entries.FindEntryByExpense(ctx, expense.FamilyID, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to load automatic entry: %w", err)
	}

	linked, err := l.goals.FindLinkedGoal(ctx, expense.FamilyID, expense.SubcategoryID, expense.CategoryKey)
	if err != nil {
		return fmt.Errorf("failed to resolve linked goal: %w", err)
	}

	should := linked != nil && !expense.IsPending

	if existing != nil && (!should || existing.GoalID != linked.ID) {
		slog.Debug("Removing automatic goal entry",
			"entry_id", existing.ID,
			"expense_id", expense.ID,
			"goal_id", existing.GoalID,
		)
		if err := l.entries.DeleteEntry(ctx, expense.FamilyID, existing.ID, bypass); err != nil {
			return err
		}
		existing = nil
	}

	if !should {
		return nil
	}
	if existing == nil {
		return l.create(ctx, expense, linked)
	}

	year, month, err := l.period(ctx, expense)
	if err != nil {
		return err
	}
	description := expense.Title
	_, err = l.entries.UpdateEntry(ctx, goal.UpdateEntryInput{
		FamilyID:    expense.FamilyID,
		ID:          existing.ID,
		Value:       &expense.Value,
		Description: &description,
		Month:       &month,
		Year:        &year,
	}, bypass)
	return err
}

// OnDelete removes the automatic entry of a deleted expense. It is a no-op when the entry is
// already gone, for example after a backend cascade.
func (l *Linker) OnDelete(ctx context.Context, familyID, expenseID string) error {
	existing, err := l.entries.FindEntryByExpense(ctx, familyID, expenseID)
	if err != nil {
		return fmt.Errorf("failed to load automatic entry: %w", err)
	}
	if existing == nil {
		return nil
	}

	return l.entries.DeleteEntry(ctx, familyID, existing.ID, bypass)
}

func (l *Linker) create(ctx context.Context, expense *entity.Expense, linked *entity.Goal) error {
	year, month, err := l.period(ctx, expense)
	if err != nil {
		return err
	}

	expenseID := expense.ID
	entry, err := l.entries.CreateEntry(ctx, goal.CreateEntryInput{
		FamilyID:    expense.FamilyID,
		GoalID:      linked.ID,
		Value:       expense.Value,
		Description: expense.Title,
		Month:       month,
		Year:        year,
		ExpenseID:   &expenseID,
	})
	if err != nil {
		return err
	}

	if entry != nil {
		slog.Debug("Automatic goal entry created",
			"entry_id", entry.ID,
			"expense_id", expense.ID,
			"goal_id", linked.ID,
		)
	}
	return nil
}

// period returns the year and month an expense belongs to: from its month record, else from a
// composite local month id, else from its creation date.
func (l *Linker) period(ctx context.Context, expense *entity.Expense) (int, int, error) {
	month, err := storage.Read(ctx, l.dispatcher, expense.FamilyID,
		func(ctx context.Context) (*entity.Month, error) {
			return l.months.GetMonth(ctx, expense.MonthID)
		},
		func(ctx context.Context) (*entity.Month, error) {
			return storage.LocalGet[entity.Month](ctx, l.dispatcher.Local(), adapter.CollectionMonths, expense.MonthID)
		},
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load expense month: %w", err)
	}
	if month != nil {
		return month.Year, month.Month, nil
	}

	if year, m, ok := valueobject.ParseMonthLocalID(expense.MonthID); ok {
		return year, m, nil
	}

	created := expense.CreatedAt
	return created.Year(), int(created.Month()), nil
}
