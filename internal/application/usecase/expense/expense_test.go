package expense

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/usecase/consistency"
	"github.com/family-budget/backend/internal/application/usecase/goal"
	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
	"github.com/family-budget/backend/test/mock"
)

const (
	offlineFamily = "offline-family-1"
	onlineFamily  = "7d9f3c1a-1b2c-4d5e-8f90-a1b2c3d4e5f6"
)

type fixture struct {
	env      *mock.Env
	goals    *goal.Service
	entries  *goal.EntryService
	expenses *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := mock.NewEnv()
	t.Cleanup(env.Close)

	goals := goal.NewService(env.Dispatcher, env.Remote)
	entries := goal.NewEntryService(env.Dispatcher, env.Remote)
	linker := consistency.NewLinker(env.Dispatcher, goals, entries, env.Remote)

	return &fixture{
		env:      env,
		goals:    goals,
		entries:  entries,
		expenses: NewService(env.Dispatcher, env.Remote, linker),
	}
}

func (f *fixture) currentValue(t *testing.T, familyID, goalID string) decimal.Decimal {
	t.Helper()
	p, err := f.goals.GetGoal(context.Background(), familyID, goalID)
	if err != nil || p == nil {
		t.Fatalf("failed to load goal: %v", err)
	}
	return p.CurrentValue
}

func (f *fixture) entryCount(t *testing.T, familyID, goalID string) int {
	t.Helper()
	list, err := f.entries.ListEntries(context.Background(), familyID, goalID)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	return len(list)
}

func freedom() *valueobject.CategoryKey {
	k := valueobject.CategoryFreedom
	return &k
}

func TestInsertExpense_OfflineFamilyScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	trip, err := f.goals.CreateGoal(ctx, goal.CreateGoalInput{
		FamilyID: offlineFamily, Name: "Trip", TargetValue: decimal.NewFromInt(1000), LinkedCategoryKey: freedom(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !valueobject.IsLocalID(trip.ID) {
		t.Errorf("expected a local goal id, got %s", trip.ID)
	}

	monthID := valueobject.MonthLocalID(offlineFamily, 2025, 6)
	expense, err := f.expenses.InsertExpense(ctx, InsertExpenseInput{
		FamilyID: offlineFamily, MonthID: monthID, Title: "Concert",
		CategoryKey: valueobject.CategoryFreedom, Value: decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, err := f.entries.FindEntryByExpense(ctx, offlineFamily, expense.ID)
	if err != nil || entry == nil {
		t.Fatalf("expected automatic entry, got %v %v", entry, err)
	}
	if entry.Month != 6 || entry.Year != 2025 || entry.Description != "Concert" {
		t.Errorf("unexpected entry period or description: %+v", entry)
	}

	list, err := f.goals.ListGoals(ctx, offlineFamily)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one goal, got %v %v", list, err)
	}
	if !list[0].CurrentValue.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected current value 200, got %s", list[0].CurrentValue)
	}

	if _, err := f.expenses.SetExpensePending(ctx, offlineFamily, expense.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.currentValue(t, offlineFamily, trip.ID); !got.IsZero() {
		t.Errorf("expected current value 0 after pending, got %s", got)
	}
	if f.env.QueueLen() != 0 {
		t.Errorf("offline family must never queue, got %d items", f.env.QueueLen())
	}
}

func TestSetExpensePending_TogglingKeepsOneEntry(t *testing.T) {
	for _, familyID := range []string{offlineFamily, onlineFamily} {
		t.Run(familyID, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			trip, _ := f.goals.CreateGoal(ctx, goal.CreateGoalInput{
				FamilyID: familyID, Name: "Trip", TargetValue: decimal.NewFromInt(1000), LinkedCategoryKey: freedom(),
			})
			expense, err := f.expenses.InsertExpense(ctx, InsertExpenseInput{
				FamilyID: familyID, MonthID: "month-1", Title: "Dinner",
				CategoryKey: valueobject.CategoryFreedom, Value: decimal.RequireFromString("80.50"),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, pending := range []bool{true, false, true, false} {
				if _, err := f.expenses.SetExpensePending(ctx, familyID, expense.ID, pending); err != nil {
					t.Fatalf("toggle to %v failed: %v", pending, err)
				}
			}

			if n := f.entryCount(t, familyID, trip.ID); n != 1 {
				t.Errorf("expected exactly one entry, got %d", n)
			}
			if got := f.currentValue(t, familyID, trip.ID); !got.Equal(decimal.RequireFromString("80.50")) {
				t.Errorf("expected 80.50, got %s", got)
			}
		})
	}
}

func TestInsertExpense_PendingOrUnlinkedCreatesNoEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	trip, _ := f.goals.CreateGoal(ctx, goal.CreateGoalInput{
		FamilyID: offlineFamily, Name: "Trip", TargetValue: decimal.NewFromInt(1000), LinkedCategoryKey: freedom(),
	})

	tests := []struct {
		name  string
		input InsertExpenseInput
	}{
		{
			name: "pending",
			input: InsertExpenseInput{FamilyID: offlineFamily, MonthID: "m", Title: "Later",
				CategoryKey: valueobject.CategoryFreedom, Value: decimal.NewFromInt(10), IsPending: true},
		},
		{
			name: "other category",
			input: InsertExpenseInput{FamilyID: offlineFamily, MonthID: "m", Title: "Rent",
				CategoryKey: valueobject.CategoryFixedCosts, Value: decimal.NewFromInt(900)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.expenses.InsertExpense(ctx, tt.input); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n := f.entryCount(t, offlineFamily, trip.ID); n != 0 {
				t.Errorf("expected no entry, got %d", n)
			}
		})
	}
}

func TestUpdateExpense_MovesEntryBetweenGoals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	books := "subcategory-1700000000000-books"

	trip, _ := f.goals.CreateGoal(ctx, goal.CreateGoalInput{
		FamilyID: offlineFamily, Name: "Trip", TargetValue: decimal.NewFromInt(1000), LinkedCategoryKey: freedom(),
	})
	library, _ := f.goals.CreateGoal(ctx, goal.CreateGoalInput{
		FamilyID: offlineFamily, Name: "Library", TargetValue: decimal.NewFromInt(300), LinkedSubcategoryID: &books,
	})

	expense, _ := f.expenses.InsertExpense(ctx, InsertExpenseInput{
		FamilyID: offlineFamily, MonthID: "m", Title: "Novel",
		CategoryKey: valueobject.CategoryFreedom, Value: decimal.NewFromInt(40),
	})
	if got := f.currentValue(t, offlineFamily, trip.ID); !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected trip at 40, got %s", got)
	}

	sub := &books
	value := decimal.NewFromInt(45)
	if _, err := f.expenses.UpdateExpense(ctx, UpdateExpenseInput{FamilyID: offlineFamily, ID: expense.ID, SubcategoryID: &sub, Value: &value}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.currentValue(t, offlineFamily, trip.ID); !got.IsZero() {
		t.Errorf("expected trip at 0, got %s", got)
	}
	if got := f.currentValue(t, offlineFamily, library.ID); !got.Equal(value) {
		t.Errorf("expected library at 45, got %s", got)
	}

	title := "Novel (hardcover)"
	value = decimal.NewFromInt(55)
	if _, err := f.expenses.UpdateExpense(ctx, UpdateExpenseInput{FamilyID: offlineFamily, ID: expense.ID, Title: &title, Value: &value}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, _ := f.entries.FindEntryByExpense(ctx, offlineFamily, expense.ID)
	if entry == nil || !entry.Value.Equal(value) || entry.Description != title || entry.GoalID != library.ID {
		t.Errorf("expected entry updated in place, got %+v", entry)
	}
}

func TestDeleteExpense_RemovesEntry(t *testing.T) {
	for _, familyID := range []string{offlineFamily, onlineFamily} {
		t.Run(familyID, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			trip, _ := f.goals.CreateGoal(ctx, goal.CreateGoalInput{
				FamilyID: familyID, Name: "Trip", TargetValue: decimal.NewFromInt(1000), LinkedCategoryKey: freedom(),
			})
			expense, _ := f.expenses.InsertExpense(ctx, InsertExpenseInput{
				FamilyID: familyID, MonthID: "m", Title: "Museum",
				CategoryKey: valueobject.CategoryFreedom, Value: decimal.NewFromInt(25),
			})

			if err := f.expenses.DeleteExpense(ctx, familyID, expense.ID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n := f.entryCount(t, familyID, trip.ID); n != 0 {
				t.Errorf("expected entry removed, got %d", n)
			}

			// Deleting again is harmless.
			if err := f.expenses.DeleteExpense(ctx, familyID, expense.ID); err != nil {
				t.Errorf("second delete failed: %v", err)
			}
		})
	}
}

func TestInsertExpense_RemoteFailureFallsBackAndQueues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.env.FailRemote()

	expense, err := f.expenses.InsertExpense(ctx, InsertExpenseInput{
		FamilyID: onlineFamily, MonthID: "m", Title: "Groceries",
		CategoryKey: valueobject.CategoryFixedCosts, Value: decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("remote failure must not surface: %v", err)
	}

	items, _ := f.env.Local.Sync().GetByFamily(ctx, onlineFamily)
	if len(items) != 1 || items[0].Type != entity.SyncEntityExpense || items[0].Action != entity.SyncActionInsert {
		t.Fatalf("expected one queued expense insert, got %+v", items)
	}

	list, err := f.expenses.ListExpenses(ctx, onlineFamily, "m")
	if err != nil || len(list) != 1 || list[0].ID != expense.ID {
		t.Errorf("expected the expense from the local fallback, got %v %v", list, err)
	}
}

func TestUpdateExpense_MissingIsNoOp(t *testing.T) {
	f := newFixture(t)
	title := "x"

	got, err := f.expenses.UpdateExpense(context.Background(), UpdateExpenseInput{FamilyID: offlineFamily, ID: "expense-missing", Title: &title})
	if err != nil || got != nil {
		t.Errorf("expected silent no-op, got %v %v", got, err)
	}
}

func TestInsertExpense_InvalidPayloadWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.expenses.InsertExpense(ctx, InsertExpenseInput{
		FamilyID: offlineFamily, MonthID: "m", Title: "",
		CategoryKey: valueobject.CategoryFixedCosts, Value: decimal.NewFromInt(-1),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	list, _ := f.expenses.ListExpenses(ctx, offlineFamily, "m")
	if len(list) != 0 {
		t.Errorf("expected no expense stored, got %d", len(list))
	}
}

// failingLinker rejects every reconciliation.
type failingLinker struct{ err error }

func (l failingLinker) OnCreate(context.Context, *entity.Expense) error { return l.err }
func (l failingLinker) OnUpdate(context.Context, *entity.Expense) error { return l.err }
func (l failingLinker) OnDelete(context.Context, string, string) error  { return l.err }

func TestExpense_GoalLinkFailureKeepsSavedExpense(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	linkErr := errors.New("goal store unavailable")
	expenses := NewService(f.env.Dispatcher, f.env.Remote, failingLinker{err: linkErr})

	created, err := expenses.InsertExpense(ctx, InsertExpenseInput{
		FamilyID: offlineFamily, MonthID: "m", Title: "Trip fund",
		CategoryKey: valueobject.CategoryFreedom, Value: decimal.NewFromInt(50),
	})
	if !errors.Is(err, ErrGoalLink) || !errors.Is(err, linkErr) {
		t.Fatalf("expected a goal link error wrapping the cause, got %v", err)
	}
	if created == nil {
		t.Fatal("expected the stored expense alongside the error")
	}
	stored, _ := expenses.GetExpense(ctx, offlineFamily, created.ID)
	if stored == nil || stored.Title != "Trip fund" {
		t.Fatalf("expected the expense to be stored, got %+v", stored)
	}

	title := "Trip fund 2"
	updated, err := expenses.UpdateExpense(ctx, UpdateExpenseInput{FamilyID: offlineFamily, ID: created.ID, Title: &title})
	if !errors.Is(err, ErrGoalLink) {
		t.Fatalf("expected a goal link error, got %v", err)
	}
	if updated == nil || updated.Title != title {
		t.Errorf("expected the saved update alongside the error, got %+v", updated)
	}

	if err := expenses.DeleteExpense(ctx, offlineFamily, created.ID); !errors.Is(err, ErrGoalLink) {
		t.Fatalf("expected a goal link error, got %v", err)
	}
	if gone, _ := expenses.GetExpense(ctx, offlineFamily, created.ID); gone != nil {
		t.Errorf("expected the expense to be deleted, got %+v", gone)
	}
}
