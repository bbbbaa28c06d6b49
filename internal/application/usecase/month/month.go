// Package month contains the month, category limit and income source use cases.
package month

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/application/usecase/expense"
	"github.com/family-budget/backend/internal/application/usecase/recurring"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// Service is the month adapter.
type Service struct {
	dispatcher *storage.Dispatcher
	remote     adapter.MonthGateway
	expenses   *expense.Service
	recurring  *recurring.Service
	include    adapter.InclusionTest
}

// NewService creates a new month Service instance.
func NewService(
	dispatcher *storage.Dispatcher,
	remote adapter.MonthGateway,
	expenses *expense.Service,
	recurring *recurring.Service,
	include adapter.InclusionTest,
) *Service {
	return &Service{
		dispatcher: dispatcher,
		remote:     remote,
		expenses:   expenses,
		recurring:  recurring,
		include:    include,
	}
}

// ListMonths returns the months of a family, most recent first.
func (s *Service) ListMonths(ctx context.Context, familyID string) ([]*entity.Month, error) {
	if familyID == "" {
		return []*entity.Month{}, nil
	}

	months, err := storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.Month, error) {
			return s.remote.ListMonths(ctx, familyID)
		},
		func(ctx context.Context) ([]*entity.Month, error) {
			return storage.LocalListBy[entity.Month](ctx, s.dispatcher.Local(), adapter.CollectionMonths, adapter.IndexFamilyID, familyID)
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Slice(months, func(i, j int) bool {
		return months[j].Before(months[i].Year, months[i].Month)
	})
	return months, nil
}

// GetMonth returns a month, or nil when it does not exist.
func (s *Service) GetMonth(ctx context.Context, familyID, id string) (*entity.Month, error) {
	if familyID == "" {
		return nil, nil
	}

	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.Month, error) {
			return s.remote.GetMonth(ctx, id)
		},
		func(ctx context.Context) (*entity.Month, error) {
			return storage.LocalGet[entity.Month](ctx, s.dispatcher.Local(), adapter.CollectionMonths, id)
		},
	)
}

// GetMonthDetails returns a month with its limits, income sources and derived income.
func (s *Service) GetMonthDetails(ctx context.Context, familyID, id string) (*entity.MonthDetails, error) {
	month, err := s.GetMonth(ctx, familyID, id)
	if err != nil || month == nil {
		return nil, err
	}

	limits, err := s.limits(ctx, familyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category limits: %w", err)
	}

	sources, err := s.ListIncomeSources(ctx, familyID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load income sources: %w", err)
	}

	return &entity.MonthDetails{
		Month:         month,
		Limits:        limits,
		IncomeSources: sources,
		Income:        entity.DeriveIncome(month, sources),
	}, nil
}

// InsertMonth creates the month (year, month) for a family, or returns it when it already exists.
// Limits are copied from the closest earlier month, or the defaults for the first month.
// Active recurring expenses are materialized as pending expenses.
func (s *Service) InsertMonth(ctx context.Context, familyID string, year, month int) (*entity.Month, error) {
	if familyID == "" {
		return nil, nil
	}
	if year < 1970 || year > 9999 || month < 1 || month > 12 {
		return nil, domainerror.NewMonthError(
			domainerror.ErrCodeInvalidMonth,
			fmt.Sprintf("%04d-%02d is not a valid month", year, month),
			domainerror.ErrInvalidMonth,
		)
	}

	months, err := s.ListMonths(ctx, familyID)
	if err != nil {
		return nil, err
	}

	var previous *entity.Month
	for _, m := range months {
		if m.Year == year && m.Month == month {
			slog.Debug("Month already exists", "month_id", m.ID, "family_id", familyID)
			return m, nil
		}
		// months is sorted most recent first.
		if previous == nil && m.Before(year, month) {
			previous = m
		}
	}

	limits := valueobject.DefaultCategoryLimits()
	if previous != nil {
		inherited, err := s.limits(ctx, familyID, previous.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load previous month limits: %w", err)
		}
		if len(inherited) > 0 {
			limits = inherited
		}
	}

	mode := s.dispatcher.Resolve(ctx, familyID)
	created := entity.NewMonth(familyID, year, month, mode.Offline)

	created, err = storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Month]{
		Action: entity.SyncActionInsert,
		Remote: func(ctx context.Context) (*entity.Month, error) {
			return created, s.remote.CreateMonth(ctx, created)
		},
		Local: func(ctx context.Context) (*entity.Month, error) {
			return created, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionMonths, created)
		},
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.replaceLimits(ctx, familyID, created.ID, limits); err != nil {
		return nil, err
	}

	if err := s.materializeRecurring(ctx, created); err != nil {
		return nil, err
	}

	slog.Info("Month created",
		"month_id", created.ID,
		"family_id", familyID,
		"year", year,
		"month", month,
	)
	return created, nil
}

// UpdateMonthLimits replaces the limits of a month. The percentages must sum to 100;
// nothing is written otherwise.
func (s *Service) UpdateMonthLimits(ctx context.Context, familyID, monthID string, limits map[valueobject.CategoryKey]float64) (map[valueobject.CategoryKey]float64, error) {
	if !valueobject.LimitsSumTo100(limits) {
		return nil, domainerror.NewMonthError(
			domainerror.ErrCodeInvalidLimits,
			"category limits must sum to 100%",
			domainerror.ErrLimitsMustSumTo100,
		)
	}
	for key, pct := range limits {
		if key == "" || pct < 0 || pct > 100 {
			return nil, domainerror.NewMonthError(
				domainerror.ErrCodeInvalidLimits,
				fmt.Sprintf("invalid limit %q: %.2f", key, pct),
				domainerror.ErrLimitsMustSumTo100,
			)
		}
	}
	if familyID == "" {
		return nil, nil
	}

	return s.replaceLimits(ctx, familyID, monthID, limits)
}

// DeleteMonth removes a month with its expenses, limits and income sources.
// Expenses go through the expense adapter so their goal entries are removed too.
func (s *Service) DeleteMonth(ctx context.Context, familyID, monthID string) error {
	if familyID == "" {
		return nil
	}

	expenses, err := s.expenses.ListExpenses(ctx, familyID, monthID)
	if err != nil {
		return fmt.Errorf("failed to list month expenses: %w", err)
	}
	for _, e := range expenses {
		if err := s.expenses.DeleteExpense(ctx, familyID, e.ID); err != nil {
			return err
		}
	}

	limitsTomb := entity.NewTombstone(entity.SyncEntityCategoryLimit, monthID)
	_, err = storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return limitsTomb, s.remote.DeleteCategoryLimits(ctx, monthID)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			return limitsTomb, storage.LocalDeleteBy(ctx, s.dispatcher.Local(), adapter.CollectionCategoryLimits, adapter.IndexMonthID, monthID)
		},
	})
	if err != nil {
		return err
	}

	sources, err := s.ListIncomeSources(ctx, familyID, monthID)
	if err != nil {
		return fmt.Errorf("failed to list income sources: %w", err)
	}
	for _, src := range sources {
		if err := s.DeleteIncomeSource(ctx, familyID, src.ID); err != nil {
			return err
		}
	}

	monthTomb := entity.NewTombstone(entity.SyncEntityMonth, monthID)
	_, err = storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return monthTomb, s.remote.DeleteMonth(ctx, monthID)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			return monthTomb, s.dispatcher.Local().Delete(ctx, adapter.CollectionMonths, monthID)
		},
	})
	if err != nil {
		return err
	}

	slog.Info("Month deleted", "month_id", monthID, "family_id", familyID, "expenses", len(expenses))
	return nil
}

func (s *Service) limits(ctx context.Context, familyID, monthID string) (map[valueobject.CategoryKey]float64, error) {
	records, err := storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.CategoryLimit, error) {
			return s.remote.ListCategoryLimits(ctx, monthID)
		},
		func(ctx context.Context) ([]*entity.CategoryLimit, error) {
			return storage.LocalListBy[entity.CategoryLimit](ctx, s.dispatcher.Local(), adapter.CollectionCategoryLimits, adapter.IndexMonthID, monthID)
		},
	)
	if err != nil {
		return nil, err
	}

	limits := make(map[valueobject.CategoryKey]float64, len(records))
	for _, l := range records {
		limits[l.CategoryKey] = l.Percentage
	}
	return limits, nil
}

// replaceLimits swaps every limit of a month. The sync queue carries the full set.
func (s *Service) replaceLimits(ctx context.Context, familyID, monthID string, limits map[valueobject.CategoryKey]float64) (map[valueobject.CategoryKey]float64, error) {
	set := &entity.CategoryLimitSet{MonthID: monthID, FamilyID: familyID, Limits: limits}

	_, err := storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.CategoryLimitSet]{
		Action: entity.SyncActionUpdate,
		Remote: func(ctx context.Context) (*entity.CategoryLimitSet, error) {
			_, err := s.remote.ReplaceCategoryLimits(ctx, familyID, monthID, limits)
			return set, err
		},
		Local: func(ctx context.Context) (*entity.CategoryLimitSet, error) {
			return set, s.replaceLocalLimits(ctx, familyID, monthID, limits)
		},
	})
	if err != nil {
		return nil, err
	}
	return limits, nil
}

func (s *Service) replaceLocalLimits(ctx context.Context, familyID, monthID string, limits map[valueobject.CategoryKey]float64) error {
	local := s.dispatcher.Local()
	if err := storage.LocalDeleteBy(ctx, local, adapter.CollectionCategoryLimits, adapter.IndexMonthID, monthID); err != nil {
		return err
	}

	for key, pct := range limits {
		limit := entity.NewCategoryLimit(familyID, monthID, key, pct, true)
		if err := storage.LocalPut(ctx, local, adapter.CollectionCategoryLimits, limit); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) materializeRecurring(ctx context.Context, month *entity.Month) error {
	templates, err := s.recurring.List(ctx, month.FamilyID)
	if err != nil {
		return fmt.Errorf("failed to list recurring expenses: %w", err)
	}

	created := 0
	for _, r := range templates {
		inclusion := s.include(r, month.Year, month.Month)
		if !inclusion.Include {
			continue
		}

		recurringID := r.ID
		_, err := s.expenses.InsertExpense(ctx, expense.InsertExpenseInput{
			FamilyID:           month.FamilyID,
			MonthID:            month.ID,
			Title:              r.Title,
			CategoryKey:        r.CategoryKey,
			SubcategoryID:      r.SubcategoryID,
			Value:              r.Value,
			IsRecurring:        true,
			IsPending:          true,
			DueDay:             r.DueDay,
			RecurringExpenseID: &recurringID,
			InstallmentCurrent: inclusion.InstallmentNumber,
			InstallmentTotal:   r.Installments,
		})
		if err != nil {
			return fmt.Errorf("failed to materialize recurring expense %s: %w", r.ID, err)
		}
		created++
	}

	if created > 0 {
		slog.Debug("Recurring expenses materialized", "month_id", month.ID, "count", created)
	}
	return nil
}
