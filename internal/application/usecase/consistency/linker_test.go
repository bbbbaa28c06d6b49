package consistency

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/application/usecase/goal"
	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
	"github.com/family-budget/backend/test/mock"
)

const family = "family-1700000000000-abc"

func TestLinker_Period(t *testing.T) {
	ctx := context.Background()
	env := mock.NewEnv()
	defer env.Close()

	linker := NewLinker(env.Dispatcher, goal.NewService(env.Dispatcher, env.Remote), goal.NewEntryService(env.Dispatcher, env.Remote), env.Remote)

	stored := entity.NewMonth(family, 2024, 11, true)
	stored.ID = "month-stored"
	if err := storage.LocalPut(ctx, env.Local, adapter.CollectionMonths, stored); err != nil {
		t.Fatalf("failed to seed month: %v", err)
	}

	created := time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		monthID       string
		expectedYear  int
		expectedMonth int
	}{
		{"month record", "month-stored", 2024, 11},
		{"composite id", valueobject.MonthLocalID(family, 2025, 3), 2025, 3},
		{"creation date", "month-unknown", 2023, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expense := entity.NewExpense(family, tt.monthID, "x", valueobject.CategoryFreedom, decimal.NewFromInt(1), true)
			expense.CreatedAt = created

			year, month, err := linker.period(ctx, expense)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if year != tt.expectedYear || month != tt.expectedMonth {
				t.Errorf("expected %d/%d, got %d/%d", tt.expectedMonth, tt.expectedYear, month, year)
			}
		})
	}
}

func TestLinker_OnDeleteWithoutEntry(t *testing.T) {
	env := mock.NewEnv()
	defer env.Close()

	linker := NewLinker(env.Dispatcher, goal.NewService(env.Dispatcher, env.Remote), goal.NewEntryService(env.Dispatcher, env.Remote), env.Remote)
	if err := linker.OnDelete(context.Background(), family, "expense-none"); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}

func TestLinker_ArchivedGoalIsNotLinked(t *testing.T) {
	ctx := context.Background()
	env := mock.NewEnv()
	defer env.Close()

	goals := goal.NewService(env.Dispatcher, env.Remote)
	entries := goal.NewEntryService(env.Dispatcher, env.Remote)
	linker := NewLinker(env.Dispatcher, goals, entries, env.Remote)

	key := valueobject.CategoryFreedom
	g, _ := goals.CreateGoal(ctx, goal.CreateGoalInput{FamilyID: family, Name: "Trip", TargetValue: decimal.NewFromInt(10), LinkedCategoryKey: &key})
	if _, err := goals.ArchiveGoal(ctx, family, g.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expense := entity.NewExpense(family, "m", "Show", valueobject.CategoryFreedom, decimal.NewFromInt(5), true)
	if err := linker.OnCreate(ctx, expense); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, _ := entries.FindEntryByExpense(ctx, family, expense.ID)
	if entry != nil {
		t.Error("archived goals must not receive automatic entries")
	}
}
