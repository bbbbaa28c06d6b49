package goal

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/domain/valueobject"
	"github.com/family-budget/backend/test/mock"
)

const (
	offlineFamily = "offline-family-1"
	onlineFamily  = "2f1c5b7e-5f0e-4c44-9e0f-3d2a1b0c9d8e"
)

func newServices(t *testing.T) (*mock.Env, *Service, *EntryService) {
	t.Helper()
	env := mock.NewEnv()
	t.Cleanup(env.Close)
	return env, NewService(env.Dispatcher, env.Remote), NewEntryService(env.Dispatcher, env.Remote)
}

func freedom() *valueobject.CategoryKey {
	k := valueobject.CategoryFreedom
	return &k
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestListGoals_CurrentValueIsSumOfEntries(t *testing.T) {
	for _, familyID := range []string{offlineFamily, onlineFamily} {
		t.Run(familyID, func(t *testing.T) {
			ctx := context.Background()
			_, goals, entries := newServices(t)

			trip, err := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: familyID, Name: "Trip", TargetValue: dec("1000")})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			house, err := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: familyID, Name: "House", TargetValue: dec("50000")})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			a, _ := entries.CreateEntry(ctx, CreateEntryInput{FamilyID: familyID, GoalID: trip.ID, Value: dec("0.10"), Month: 1, Year: 2025})
			b, _ := entries.CreateEntry(ctx, CreateEntryInput{FamilyID: familyID, GoalID: trip.ID, Value: dec("0.20"), Month: 2, Year: 2025})
			_, _ = entries.CreateEntry(ctx, CreateEntryInput{FamilyID: familyID, GoalID: house.ID, Value: dec("700"), Month: 2, Year: 2025})

			newValue := dec("99.70")
			if _, err := entries.UpdateEntry(ctx, UpdateEntryInput{FamilyID: familyID, ID: b.ID, Value: &newValue}, EntryOptions{}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, _ = entries.CreateEntry(ctx, CreateEntryInput{FamilyID: familyID, GoalID: trip.ID, Value: dec("300"), Month: 3, Year: 2025})
			if err := entries.DeleteEntry(ctx, familyID, a.ID, EntryOptions{}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			list, err := goals.ListGoals(ctx, familyID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(list) != 2 {
				t.Fatalf("expected 2 goals, got %d", len(list))
			}

			expected := map[string]decimal.Decimal{trip.ID: dec("399.70"), house.ID: dec("700")}
			for _, p := range list {
				if !p.CurrentValue.Equal(expected[p.Goal.ID]) {
					t.Errorf("goal %s: expected %s, got %s", p.Goal.Name, expected[p.Goal.ID], p.CurrentValue)
				}
			}

			single, err := goals.GetGoal(ctx, familyID, trip.ID)
			if err != nil || single == nil {
				t.Fatalf("expected goal, got %v %v", single, err)
			}
			if !single.CurrentValue.Equal(dec("399.70")) {
				t.Errorf("expected 399.70 from GetGoal, got %s", single.CurrentValue)
			}
		})
	}
}

func TestListGoals_EmptyFamily(t *testing.T) {
	_, goals, _ := newServices(t)

	list, err := goals.ListGoals(context.Background(), "")
	if err != nil || len(list) != 0 {
		t.Errorf("expected empty list without error, got %v %v", list, err)
	}
}

func TestCreateGoal_LinkRules(t *testing.T) {
	ctx := context.Background()
	_, goals, _ := newServices(t)
	sub := "subcategory-1700000000000-aaa"

	first, err := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: offlineFamily, Name: "Fun", TargetValue: dec("500"), LinkedCategoryKey: freedom()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: offlineFamily, Name: "Gym", TargetValue: dec("300"), LinkedSubcategoryID: &sub}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comfort := valueobject.CategoryComfort
	tests := []struct {
		name     string
		input    CreateGoalInput
		expected error
	}{
		{
			name:     "category already linked",
			input:    CreateGoalInput{FamilyID: offlineFamily, Name: "More fun", TargetValue: dec("1"), LinkedCategoryKey: freedom()},
			expected: domainerror.ErrCategoryAlreadyLinked,
		},
		{
			name:     "subcategory already linked",
			input:    CreateGoalInput{FamilyID: offlineFamily, Name: "Gym 2", TargetValue: dec("1"), LinkedSubcategoryID: &sub},
			expected: domainerror.ErrSubcategoryAlreadyLinked,
		},
		{
			name:     "both links",
			input:    CreateGoalInput{FamilyID: offlineFamily, Name: "Both", TargetValue: dec("1"), LinkedSubcategoryID: &sub, LinkedCategoryKey: freedom()},
			expected: domainerror.ErrAmbiguousGoalLink,
		},
		{
			name:     "non discretionary category",
			input:    CreateGoalInput{FamilyID: offlineFamily, Name: "Sofa", TargetValue: dec("1"), LinkedCategoryKey: &comfort},
			expected: domainerror.ErrInvalidGoalCategory,
		},
		{
			name:     "zero target",
			input:    CreateGoalInput{FamilyID: offlineFamily, Name: "Nothing", TargetValue: decimal.Zero},
			expected: validation.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := goals.CreateGoal(ctx, tt.input)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}

	// Archived goals release their link.
	if _, err := goals.ArchiveGoal(ctx, offlineFamily, first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: offlineFamily, Name: "New fun", TargetValue: dec("100"), LinkedCategoryKey: freedom()}); err != nil {
		t.Errorf("archived goal must not block the category: %v", err)
	}

	// Reactivating the archived goal now conflicts.
	active := entity.GoalStatusActive
	_, err = goals.UpdateGoal(ctx, UpdateGoalInput{FamilyID: offlineFamily, ID: first.ID, Status: &active})
	if !errors.Is(err, domainerror.ErrCategoryAlreadyLinked) {
		t.Errorf("expected conflict on reactivation, got %v", err)
	}
}

func TestFindLinkedGoal(t *testing.T) {
	ctx := context.Background()
	_, goals, _ := newServices(t)
	sub := "subcategory-1700000000000-bbb"
	other := "subcategory-1700000000000-ccc"

	bySub, _ := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: offlineFamily, Name: "Books", TargetValue: dec("200"), LinkedSubcategoryID: &sub})
	byKey, _ := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: offlineFamily, Name: "Trip", TargetValue: dec("1000"), LinkedCategoryKey: freedom()})

	tests := []struct {
		name     string
		sub      *string
		key      valueobject.CategoryKey
		expected string
	}{
		{"subcategory wins", &sub, valueobject.CategoryFreedom, bySub.ID},
		{"falls back to category", &other, valueobject.CategoryFreedom, byKey.ID},
		{"category only", nil, valueobject.CategoryFreedom, byKey.ID},
		{"no link", nil, valueobject.CategoryFixedCosts, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := goals.FindLinkedGoal(ctx, offlineFamily, tt.sub, tt.key)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			gotID := ""
			if got != nil {
				gotID = got.ID
			}
			if gotID != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, gotID)
			}
		})
	}
}

func TestEntry_AutomaticEntriesAreProtected(t *testing.T) {
	for _, familyID := range []string{offlineFamily, onlineFamily} {
		t.Run(familyID, func(t *testing.T) {
			ctx := context.Background()
			_, goals, entries := newServices(t)

			goal, _ := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: familyID, Name: "Trip", TargetValue: dec("1000")})
			expenseID := "expense-1700000000000-abc"
			entry, err := entries.CreateEntry(ctx, CreateEntryInput{
				FamilyID: familyID, GoalID: goal.ID, Value: dec("50"), Month: 4, Year: 2025, ExpenseID: &expenseID,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			value := dec("60")
			_, err = entries.UpdateEntry(ctx, UpdateEntryInput{FamilyID: familyID, ID: entry.ID, Value: &value}, EntryOptions{})
			if !errors.Is(err, domainerror.ErrAutomaticEntryProtected) {
				t.Errorf("expected protected update error, got %v", err)
			}
			if err := entries.DeleteEntry(ctx, familyID, entry.ID, EntryOptions{}); !errors.Is(err, domainerror.ErrAutomaticEntryProtected) {
				t.Errorf("expected protected delete error, got %v", err)
			}

			updated, err := entries.UpdateEntry(ctx, UpdateEntryInput{FamilyID: familyID, ID: entry.ID, Value: &value}, EntryOptions{AllowAutomatic: true})
			if err != nil || updated == nil || !updated.Value.Equal(value) {
				t.Fatalf("bypass update must succeed, got %v %v", updated, err)
			}
			if err := entries.DeleteEntry(ctx, familyID, entry.ID, EntryOptions{AllowAutomatic: true}); err != nil {
				t.Fatalf("bypass delete must succeed: %v", err)
			}

			found, _ := entries.FindEntryByExpense(ctx, familyID, expenseID)
			if found != nil {
				t.Error("expected entry deleted")
			}
		})
	}
}

func TestEntry_MissingEntryIsNoOp(t *testing.T) {
	ctx := context.Background()
	_, _, entries := newServices(t)

	value := dec("1")
	got, err := entries.UpdateEntry(ctx, UpdateEntryInput{FamilyID: offlineFamily, ID: "goal-entry-missing", Value: &value}, EntryOptions{})
	if err != nil || got != nil {
		t.Errorf("expected silent no-op, got %v %v", got, err)
	}
	if err := entries.DeleteEntry(ctx, offlineFamily, "goal-entry-missing", EntryOptions{}); err != nil {
		t.Errorf("expected silent no-op, got %v", err)
	}
}

func TestDeleteGoal_RemovesEntriesLocally(t *testing.T) {
	ctx := context.Background()
	env, goals, entries := newServices(t)

	goal, _ := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: offlineFamily, Name: "Trip", TargetValue: dec("1000")})
	_, _ = entries.CreateEntry(ctx, CreateEntryInput{FamilyID: offlineFamily, GoalID: goal.ID, Value: dec("10"), Month: 1, Year: 2025})

	if err := goals.DeleteGoal(ctx, offlineFamily, goal.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, _ := entries.ListEntries(ctx, offlineFamily, goal.ID)
	if len(left) != 0 {
		t.Errorf("expected entries removed with the goal, got %d", len(left))
	}
	if env.QueueLen() != 0 {
		t.Error("offline family deletes must not be queued")
	}
}

func TestCreateGoal_RemoteFailureQueuesForOnlineFamily(t *testing.T) {
	ctx := context.Background()
	env, goals, _ := newServices(t)
	env.FailRemote()

	goal, err := goals.CreateGoal(ctx, CreateGoalInput{FamilyID: onlineFamily, Name: "Car", TargetValue: dec("30000")})
	if err != nil {
		t.Fatalf("remote failure must not surface: %v", err)
	}
	if env.QueueLen() != 1 {
		t.Errorf("expected 1 queued item, got %d", env.QueueLen())
	}

	list, err := goals.ListGoals(ctx, onlineFamily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Goal.ID != goal.ID {
		t.Errorf("expected the fallback goal from the local store, got %+v", list)
	}
}
