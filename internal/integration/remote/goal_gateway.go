package remote

import (
	"context"

	"gorm.io/gorm"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/integration/remote/model"
)

// ListGoals retrieves the goals of a family.
func (g *gateway) ListGoals(ctx context.Context, familyID string) ([]*entity.Goal, error) {
	var models []model.GoalModel
	result := g.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	goals := make([]*entity.Goal, len(models))
	for i := range models {
		goals[i] = models[i].ToEntity()
	}
	return goals, nil
}

// GetGoal retrieves a goal by its ID.
func (g *gateway) GetGoal(ctx context.Context, id string) (*entity.Goal, error) {
	var m model.GoalModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateGoal inserts a goal.
func (g *gateway) CreateGoal(ctx context.Context, goal *entity.Goal) error {
	return g.create(ctx, goal, model.GoalFromEntity(goal))
}

// UpdateGoal saves a goal.
func (g *gateway) UpdateGoal(ctx context.Context, goal *entity.Goal) error {
	return g.save(ctx, goal, model.GoalFromEntity(goal))
}

// DeleteGoal removes a goal and its entries.
func (g *gateway) DeleteGoal(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", id).Delete(&model.GoalEntryModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.GoalModel{}, "id = ?", id).Error
	})
}

// ListGoalEntries retrieves the entries of every given goal in a single query.
func (g *gateway) ListGoalEntries(ctx context.Context, goalIDs []string) ([]*entity.GoalEntry, error) {
	if len(goalIDs) == 0 {
		return []*entity.GoalEntry{}, nil
	}

	var models []model.GoalEntryModel
	result := g.db.WithContext(ctx).
		Where("goal_id IN ?", goalIDs).
		Order("year ASC, month ASC, created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.GoalEntry, len(models))
	for i := range models {
		entries[i] = models[i].ToEntity()
	}
	return entries, nil
}

// GetGoalEntry retrieves a goal entry by its ID.
func (g *gateway) GetGoalEntry(ctx context.Context, id string) (*entity.GoalEntry, error) {
	var m model.GoalEntryModel
	found, err := g.findOne(ctx, &m, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindGoalEntryByExpense retrieves the entry generated from an expense.
func (g *gateway) FindGoalEntryByExpense(ctx context.Context, expenseID string) (*entity.GoalEntry, error) {
	var m model.GoalEntryModel
	found, err := g.findOne(ctx, &m, "expense_id = ?", expenseID)
	if err != nil || !found {
		return nil, err
	}
	return m.ToEntity(), nil
}

// CreateGoalEntry inserts a goal entry.
func (g *gateway) CreateGoalEntry(ctx context.Context, entry *entity.GoalEntry) error {
	return g.create(ctx, entry, model.GoalEntryFromEntity(entry))
}

// UpdateGoalEntry saves a goal entry.
func (g *gateway) UpdateGoalEntry(ctx context.Context, entry *entity.GoalEntry) error {
	return g.save(ctx, entry, model.GoalEntryFromEntity(entry))
}

// DeleteGoalEntry removes a goal entry.
func (g *gateway) DeleteGoalEntry(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Delete(&model.GoalEntryModel{}, "id = ?", id).Error
}
