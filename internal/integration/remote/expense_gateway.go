package remote

import (
	"context"

	"gorm.io/gorm"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/integration/remote/model"
)

// ListExpenses retrieves the expenses of a month.
func (g *gateway) ListExpenses(ctx context.Context, familyID, monthID string) ([]*entity.Expense, error) {
	var models []model.ExpenseModel
	result := g.db.WithContext(ctx).
		Where("family_id = ? AND month_id = ?", familyID, monthID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	expenses := make([]*entity.Expense, len(models))
	for i := range models {
		expenses[i] = models[i].ToEntity()
	}
	return expenses, nil
}

// GetExpense retrieves an expense by its ID.
func (g *gateway) GetExpense(ctx context.Context, id string) (*entity.Expense, error) {
	var m model.ExpenseModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateExpense inserts an expense.
func (g *gateway) CreateExpense(ctx context.Context, expense *entity.Expense) error {
	return g.create(ctx, expense, model.ExpenseFromEntity(expense))
}

// UpdateExpense saves an expense.
func (g *gateway) UpdateExpense(ctx context.Context, expense *entity.Expense) error {
	return g.save(ctx, expense, model.ExpenseFromEntity(expense))
}

// DeleteExpense removes an expense and the goal entry generated from it.
func (g *gateway) DeleteExpense(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&model.GoalEntryModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ExpenseModel{}, "id = ?", id).Error
	})
}

// ListRecurringExpenses retrieves the recurring expenses of a family.
func (g *gateway) ListRecurringExpenses(ctx context.Context, familyID string) ([]*entity.RecurringExpense, error) {
	var models []model.RecurringExpenseModel
	result := g.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	expenses := make([]*entity.RecurringExpense, len(models))
	for i := range models {
		expenses[i] = models[i].ToEntity()
	}
	return expenses, nil
}

// GetRecurringExpense retrieves a recurring expense by its ID.
func (g *gateway) GetRecurringExpense(ctx context.Context, id string) (*entity.RecurringExpense, error) {
	var m model.RecurringExpenseModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateRecurringExpense inserts a recurring expense.
func (g *gateway) CreateRecurringExpense(ctx context.Context, expense *entity.RecurringExpense) error {
	return g.create(ctx, expense, model.RecurringExpenseFromEntity(expense))
}

// UpdateRecurringExpense saves a recurring expense.
func (g *gateway) UpdateRecurringExpense(ctx context.Context, expense *entity.RecurringExpense) error {
	return g.save(ctx, expense, model.RecurringExpenseFromEntity(expense))
}

// DeleteRecurringExpense removes a recurring expense. Materialized expenses keep their data.
func (g *gateway) DeleteRecurringExpense(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&model.RecurringExpenseModel{}, "id = ?", id).Error
}

// ListSubcategories retrieves the subcategories of a family.
func (g *gateway) ListSubcategories(ctx context.Context, familyID string) ([]*entity.Subcategory, error) {
	var models []model.SubcategoryModel
	result := g.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("name ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	subs := make([]*entity.Subcategory, len(models))
	for i := range models {
		subs[i] = models[i].ToEntity()
	}
	return subs, nil
}

// GetSubcategory retrieves a subcategory by its ID.
func (g *gateway) GetSubcategory(ctx context.Context, id string) (*entity.Subcategory, error) {
	var m model.SubcategoryModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateSubcategory inserts a subcategory.
func (g *gateway) CreateSubcategory(ctx context.Context, sub *entity.Subcategory) error {
	return g.create(ctx, sub, model.SubcategoryFromEntity(sub))
}

// UpdateSubcategory saves a subcategory.
func (g *gateway) UpdateSubcategory(ctx context.Context, sub *entity.Subcategory) error {
	return g.save(ctx, sub, model.SubcategoryFromEntity(sub))
}

// DeleteSubcategory removes a subcategory.
func (g *gateway) DeleteSubcategory(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&model.SubcategoryModel{}, "id = ?", id).Error
}
