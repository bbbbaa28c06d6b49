package month

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/usecase/consistency"
	"github.com/family-budget/backend/internal/application/usecase/expense"
	"github.com/family-budget/backend/internal/application/usecase/goal"
	"github.com/family-budget/backend/internal/application/usecase/recurring"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/valueobject"
	"github.com/family-budget/backend/internal/integration/adapters"
	"github.com/family-budget/backend/test/mock"
)

const (
	offlineFamily = "offline-family-1"
	onlineFamily  = "c0a8012e-7d3b-4e4f-9a6b-5d4c3b2a1908"
)

type fixture struct {
	env       *mock.Env
	months    *Service
	expenses  *expense.Service
	recurring *recurring.Service
	goals     *goal.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := mock.NewEnv()
	t.Cleanup(env.Close)

	goals := goal.NewService(env.Dispatcher, env.Remote)
	entries := goal.NewEntryService(env.Dispatcher, env.Remote)
	linker := consistency.NewLinker(env.Dispatcher, goals, entries, env.Remote)
	expenses := expense.NewService(env.Dispatcher, env.Remote, linker)
	rec := recurring.NewService(env.Dispatcher, env.Remote)

	return &fixture{
		env:       env,
		months:    NewService(env.Dispatcher, env.Remote, expenses, rec, adapters.IncludeRecurring),
		expenses:  expenses,
		recurring: rec,
		goals:     goals,
	}
}

func TestUpdateMonthLimits_RejectsBadSum(t *testing.T) {
	for _, familyID := range []string{offlineFamily, onlineFamily} {
		t.Run(familyID, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			m, err := f.months.InsertMonth(ctx, familyID, 2025, 5)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			queued := f.env.QueueLen()

			bad := map[valueobject.CategoryKey]float64{"a": 40, "b": 40, "c": 19}
			_, err = f.months.UpdateMonthLimits(ctx, familyID, m.ID, bad)
			if !errors.Is(err, domainerror.ErrLimitsMustSumTo100) {
				t.Fatalf("expected limits error, got %v", err)
			}
			var monthErr *domainerror.MonthError
			if !errors.As(err, &monthErr) || monthErr.Code != domainerror.ErrCodeInvalidLimits {
				t.Errorf("expected coded month error, got %v", err)
			}

			details, err := f.months.GetMonthDetails(ctx, familyID, m.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(details.Limits) != len(valueobject.DefaultCategoryLimits()) {
				t.Errorf("limits changed after rejected update: %v", details.Limits)
			}
			if _, ok := details.Limits["a"]; ok {
				t.Error("rejected limits were partially written")
			}
			if f.env.QueueLen() != queued {
				t.Error("rejected update must not queue anything")
			}
		})
	}
}

func TestUpdateMonthLimits_RejectsWithoutStorageAccess(t *testing.T) {
	env := mock.NewUnreachableEnv()
	defer env.Close()
	months := NewService(env.Dispatcher, env.Remote, nil, nil, adapters.IncludeRecurring)

	tests := []struct {
		name   string
		limits map[valueobject.CategoryKey]float64
	}{
		{"below", map[valueobject.CategoryKey]float64{"a": 40, "b": 40, "c": 19}},
		{"above", map[valueobject.CategoryKey]float64{"a": 50, "b": 50.02}},
		{"empty", map[valueobject.CategoryKey]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The unreachable remote panics on any call.
			_, err := months.UpdateMonthLimits(context.Background(), onlineFamily, "month-x", tt.limits)
			if !errors.Is(err, domainerror.ErrLimitsMustSumTo100) {
				t.Errorf("expected limits error, got %v", err)
			}
		})
	}
}

func TestUpdateMonthLimits_AcceptsTolerance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	m, _ := f.months.InsertMonth(ctx, offlineFamily, 2025, 1)
	limits := map[valueobject.CategoryKey]float64{
		valueobject.CategoryFixedCosts: 33.33,
		valueobject.CategoryComfort:    33.33,
		valueobject.CategoryFreedom:    33.33,
	}
	if _, err := f.months.UpdateMonthLimits(ctx, offlineFamily, m.ID, limits); err != nil {
		t.Fatalf("expected 99.99 to be accepted, got %v", err)
	}

	details, _ := f.months.GetMonthDetails(ctx, offlineFamily, m.ID)
	if len(details.Limits) != 3 || details.Limits[valueobject.CategoryFreedom] != 33.33 {
		t.Errorf("unexpected limits %v", details.Limits)
	}
}

func TestInsertMonth_InheritsLimitsFromEarlierMonth(t *testing.T) {
	for _, familyID := range []string{offlineFamily, onlineFamily} {
		t.Run(familyID, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			march, _ := f.months.InsertMonth(ctx, familyID, 2025, 3)
			custom := map[valueobject.CategoryKey]float64{valueobject.CategoryFixedCosts: 60, valueobject.CategoryFreedom: 40}
			if _, err := f.months.UpdateMonthLimits(ctx, familyID, march.ID, custom); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// A later month exists but must not be the source.
			later, _ := f.months.InsertMonth(ctx, familyID, 2025, 9)
			_, _ = f.months.UpdateMonthLimits(ctx, familyID, later.ID, map[valueobject.CategoryKey]float64{valueobject.CategoryComfort: 100})

			june, err := f.months.InsertMonth(ctx, familyID, 2025, 6)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			details, _ := f.months.GetMonthDetails(ctx, familyID, june.ID)
			if len(details.Limits) != 2 || details.Limits[valueobject.CategoryFixedCosts] != 60 {
				t.Errorf("expected limits inherited from March, got %v", details.Limits)
			}

			first, _ := f.months.InsertMonth(ctx, familyID, 2024, 12)
			details, _ = f.months.GetMonthDetails(ctx, familyID, first.ID)
			if len(details.Limits) != len(valueobject.DefaultCategoryLimits()) {
				t.Errorf("expected default limits for the earliest month, got %v", details.Limits)
			}
		})
	}
}

func TestInsertMonth_ExistingAndInvalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.months.InsertMonth(ctx, offlineFamily, 2025, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != valueobject.MonthLocalID(offlineFamily, 2025, 4) {
		t.Errorf("expected composite month id, got %s", first.ID)
	}

	again, err := f.months.InsertMonth(ctx, offlineFamily, 2025, 4)
	if err != nil || again.ID != first.ID {
		t.Errorf("expected the existing month, got %v %v", again, err)
	}

	months, _ := f.months.ListMonths(ctx, offlineFamily)
	if len(months) != 1 {
		t.Errorf("expected one month, got %d", len(months))
	}

	if _, err := f.months.InsertMonth(ctx, offlineFamily, 2025, 13); !errors.Is(err, domainerror.ErrInvalidMonth) {
		t.Errorf("expected invalid month error, got %v", err)
	}
}

func TestInsertMonth_MaterializesRecurringExpenses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	installments := 2
	dueDay := 10
	_, _ = f.recurring.Create(ctx, recurring.CreateInput{
		FamilyID: offlineFamily, Title: "Phone", CategoryKey: valueobject.CategoryComfort,
		Value: decimal.NewFromInt(150), StartYear: 2025, StartMonth: 1, Installments: &installments, DueDay: &dueDay,
	})
	_, _ = f.recurring.Create(ctx, recurring.CreateInput{
		FamilyID: offlineFamily, Title: "Rent", CategoryKey: valueobject.CategoryFixedCosts,
		Value: decimal.NewFromInt(900), StartYear: 2025, StartMonth: 1,
	})
	_, _ = f.recurring.Create(ctx, recurring.CreateInput{
		FamilyID: offlineFamily, Title: "Future", CategoryKey: valueobject.CategoryFixedCosts,
		Value: decimal.NewFromInt(1), StartYear: 2026, StartMonth: 1,
	})

	feb, err := f.months.InsertMonth(ctx, offlineFamily, 2025, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expenses, _ := f.expenses.ListExpenses(ctx, offlineFamily, feb.ID)
	if len(expenses) != 2 {
		t.Fatalf("expected 2 materialized expenses, got %d", len(expenses))
	}
	for _, e := range expenses {
		if !e.IsRecurring || !e.IsPending || e.RecurringExpenseID == nil {
			t.Errorf("expected pending recurring expense, got %+v", e)
		}
		if e.Title == "Phone" {
			if e.InstallmentCurrent == nil || *e.InstallmentCurrent != 2 || e.InstallmentTotal == nil || *e.InstallmentTotal != 2 {
				t.Errorf("expected installment 2/2, got %+v", e)
			}
			if e.DueDay == nil || *e.DueDay != 10 {
				t.Errorf("expected due day 10, got %v", e.DueDay)
			}
		}
	}

	mar, _ := f.months.InsertMonth(ctx, offlineFamily, 2025, 3)
	expenses, _ = f.expenses.ListExpenses(ctx, offlineFamily, mar.ID)
	if len(expenses) != 1 || expenses[0].Title != "Rent" {
		t.Errorf("expected only rent after the last installment, got %+v", expenses)
	}
}

func TestDeleteMonth_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	key := valueobject.CategoryFreedom
	trip, _ := f.goals.CreateGoal(ctx, goal.CreateGoalInput{FamilyID: offlineFamily, Name: "Trip", TargetValue: decimal.NewFromInt(1000), LinkedCategoryKey: &key})

	m, _ := f.months.InsertMonth(ctx, offlineFamily, 2025, 7)
	_, _ = f.expenses.InsertExpense(ctx, expense.InsertExpenseInput{
		FamilyID: offlineFamily, MonthID: m.ID, Title: "Beach", CategoryKey: valueobject.CategoryFreedom, Value: decimal.NewFromInt(70),
	})
	_, _ = f.months.AddIncomeSource(ctx, offlineFamily, m.ID, "Salary", decimal.NewFromInt(5000))

	if err := f.months.DeleteMonth(ctx, offlineFamily, m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := f.months.GetMonth(ctx, offlineFamily, m.ID); got != nil {
		t.Error("expected month removed")
	}
	if list, _ := f.expenses.ListExpenses(ctx, offlineFamily, m.ID); len(list) != 0 {
		t.Errorf("expected expenses removed, got %d", len(list))
	}
	if list, _ := f.months.ListIncomeSources(ctx, offlineFamily, m.ID); len(list) != 0 {
		t.Errorf("expected income sources removed, got %d", len(list))
	}
	if limits, _ := f.months.limits(ctx, offlineFamily, m.ID); len(limits) != 0 {
		t.Errorf("expected limits removed, got %v", limits)
	}

	p, _ := f.goals.GetGoal(ctx, offlineFamily, trip.ID)
	if !p.CurrentValue.IsZero() {
		t.Errorf("expected goal entries of deleted expenses removed, got %s", p.CurrentValue)
	}
}

func TestGetMonthDetails_DerivesIncome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	m, _ := f.months.InsertMonth(ctx, onlineFamily, 2025, 8)
	salary, _ := f.months.AddIncomeSource(ctx, onlineFamily, m.ID, "Salary", decimal.RequireFromString("4200.50"))
	_, _ = f.months.AddIncomeSource(ctx, onlineFamily, m.ID, "Rent income", decimal.NewFromInt(800))

	value := decimal.NewFromInt(4300)
	if _, err := f.months.UpdateIncomeSource(ctx, onlineFamily, salary.ID, nil, &value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	details, err := f.months.GetMonthDetails(ctx, onlineFamily, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !details.Income.Equal(decimal.NewFromInt(5100)) {
		t.Errorf("expected income 5100, got %s", details.Income)
	}

	if err := f.months.DeleteIncomeSource(ctx, onlineFamily, salary.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	details, _ = f.months.GetMonthDetails(ctx, onlineFamily, m.ID)
	if len(details.IncomeSources) != 1 || !details.Income.Equal(decimal.NewFromInt(800)) {
		t.Errorf("expected income 800 from the remaining source, got %s", details.Income)
	}
}
