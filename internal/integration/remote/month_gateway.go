package remote

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/domain/valueobject"
	"github.com/family-budget/backend/internal/integration/remote/model"
)

// ListMonths retrieves the months of a family, most recent first.
func (g *gateway) ListMonths(ctx context.Context, familyID string) ([]*entity.Month, error) {
	var models []model.MonthModel
	result := g.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("year DESC, month DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	months := make([]*entity.Month, len(models))
	for i := range models {
		months[i] = models[i].ToEntity()
	}
	return months, nil
}

// GetMonth retrieves a month by its ID.
func (g *gateway) GetMonth(ctx context.Context, id string) (*entity.Month, error) {
	var m model.MonthModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateMonth inserts a month.
func (g *gateway) CreateMonth(ctx context.Context, month *entity.Month) error {
	return g.create(ctx, month, model.MonthFromEntity(month))
}

// DeleteMonth removes a month.
func (g *gateway) DeleteMonth(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&model.MonthModel{}, "id = ?", id).Error
}

// ListCategoryLimits retrieves the limits of a month.
func (g *gateway) ListCategoryLimits(ctx context.Context, monthID string) ([]*entity.CategoryLimit, error) {
	var models []model.CategoryLimitModel
	result := g.db.WithContext(ctx).
		Where("month_id = ?", monthID).
		Order("category_key ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	limits := make([]*entity.CategoryLimit, len(models))
	for i := range models {
		limits[i] = models[i].ToEntity()
	}
	return limits, nil
}

// ReplaceCategoryLimits swaps every limit of the month in one transaction.
func (g *gateway) ReplaceCategoryLimits(ctx context.Context, familyID, monthID string, limits map[valueobject.CategoryKey]float64) ([]*entity.CategoryLimit, error) {
	keys := make([]string, 0, len(limits))
	for key := range limits {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)

	created := make([]*entity.CategoryLimit, 0, len(keys))
	for _, key := range keys {
		limit := entity.NewCategoryLimit(familyID, monthID, valueobject.CategoryKey(key), limits[valueobject.CategoryKey(key)], false)
		if err := validation.Struct(limit); err != nil {
			return nil, err
		}
		created = append(created, limit)
	}

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month_id = ?", monthID).Delete(&model.CategoryLimitModel{}).Error; err != nil {
			return err
		}
		for _, limit := range created {
			if err := tx.Create(model.CategoryLimitFromEntity(limit)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteCategoryLimits removes every limit of a month.
func (g *gateway) DeleteCategoryLimits(ctx context.Context, monthID string) error {
	return g.db.WithContext(ctx).Where("month_id = ?", monthID).Delete(&model.CategoryLimitModel{}).Error
}

// ListIncomeSources retrieves the income sources of a month.
func (g *gateway) ListIncomeSources(ctx context.Context, monthID string) ([]*entity.IncomeSource, error) {
	var models []model.IncomeSourceModel
	result := g.db.WithContext(ctx).
		Where("month_id = ?", monthID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	sources := make([]*entity.IncomeSource, len(models))
	for i := range models {
		sources[i] = models[i].ToEntity()
	}
	return sources, nil
}

// GetIncomeSource retrieves an income source by its ID.
func (g *gateway) GetIncomeSource(ctx context.Context, id string) (*entity.IncomeSource, error) {
	var m model.IncomeSourceModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateIncomeSource inserts an income source.
func (g *gateway) CreateIncomeSource(ctx context.Context, source *entity.IncomeSource) error {
	return g.create(ctx, source, model.IncomeSourceFromEntity(source))
}

// UpdateIncomeSource saves an income source.
func (g *gateway) UpdateIncomeSource(ctx context.Context, source *entity.IncomeSource) error {
	return g.save(ctx, source, model.IncomeSourceFromEntity(source))
}

// DeleteIncomeSource removes an income source.
func (g *gateway) DeleteIncomeSource(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&model.IncomeSourceModel{}, "id = ?", id).Error
}
