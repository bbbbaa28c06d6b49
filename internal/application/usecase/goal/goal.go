// Package goal contains the goal and goal entry use cases.
package goal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/application/storage"
	"github.com/family-budget/backend/internal/domain/entity"
	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// CreateGoalInput represents the input for goal creation.
type CreateGoalInput struct {
	FamilyID            string
	Name                string
	TargetValue         decimal.Decimal
	TargetMonth         *int
	TargetYear          *int
	LinkedSubcategoryID *string
	LinkedCategoryKey   *valueobject.CategoryKey
}

// GoalLink replaces the automatic-contribution link of a goal. Both fields nil unlinks it.
type GoalLink struct {
	SubcategoryID *string
	CategoryKey   *valueobject.CategoryKey
}

// UpdateGoalInput represents a partial goal update. Nil fields are left unchanged.
type UpdateGoalInput struct {
	FamilyID    string
	ID          string
	Name        *string
	TargetValue *decimal.Decimal
	TargetMonth *int
	TargetYear  *int
	Link        *GoalLink
	Status      *entity.GoalStatus
}

// Service is the goal adapter.
type Service struct {
	dispatcher *storage.Dispatcher
	remote     adapter.GoalGateway
}

// NewService creates a new goal Service instance.
func NewService(dispatcher *storage.Dispatcher, remote adapter.GoalGateway) *Service {
	return &Service{
		dispatcher: dispatcher,
		remote:     remote,
	}
}

// ListGoals returns the goals of a family with their current value summed from one
// batched read of all their entries.
func (s *Service) ListGoals(ctx context.Context, familyID string) ([]*entity.GoalProgress, error) {
	if familyID == "" {
		return []*entity.GoalProgress{}, nil
	}

	goals, err := s.listGoals(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return s.withProgress(ctx, familyID, goals)
}

// GetGoal returns one goal with its current value, or nil when it does not exist.
func (s *Service) GetGoal(ctx context.Context, familyID, id string) (*entity.GoalProgress, error) {
	if familyID == "" {
		return nil, nil
	}

	goal, err := s.getGoal(ctx, familyID, id)
	if err != nil || goal == nil {
		return nil, err
	}

	progress, err := s.withProgress(ctx, familyID, []*entity.Goal{goal})
	if err != nil {
		return nil, err
	}
	return progress[0], nil
}

// CreateGoal validates the payload and the link uniqueness among active goals, then stores the goal.
func (s *Service) CreateGoal(ctx context.Context, input CreateGoalInput) (*entity.Goal, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	mode := s.dispatcher.Resolve(ctx, input.FamilyID)
	goal := entity.NewGoal(input.FamilyID, input.Name, input.TargetValue, mode.Offline)
	goal.TargetMonth = input.TargetMonth
	goal.TargetYear = input.TargetYear
	goal.LinkedSubcategoryID = input.LinkedSubcategoryID
	goal.LinkedCategoryKey = input.LinkedCategoryKey

	if err := s.validate(ctx, goal); err != nil {
		return nil, err
	}

	return storage.Mutate(ctx, s.dispatcher, input.FamilyID, storage.Write[*entity.Goal]{
		Action: entity.SyncActionInsert,
		Remote: func(ctx context.Context) (*entity.Goal, error) {
			return goal, s.remote.CreateGoal(ctx, goal)
		},
		Local: func(ctx context.Context) (*entity.Goal, error) {
			return goal, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionGoals, goal)
		},
	})
}

// UpdateGoal applies a partial update. A missing goal is a no-op.
func (s *Service) UpdateGoal(ctx context.Context, input UpdateGoalInput) (*entity.Goal, error) {
	if input.FamilyID == "" {
		return nil, nil
	}

	unlock := s.dispatcher.Lock(entity.SyncEntityGoal, input.ID)
	defer unlock()

	goal, err := s.getGoal(ctx, input.FamilyID, input.ID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		slog.Debug("Goal not found, skipping update", "goal_id", input.ID, "family_id", input.FamilyID)
		return nil, nil
	}

	if input.Name != nil {
		goal.Name = *input.Name
	}
	if input.TargetValue != nil {
		goal.TargetValue = *input.TargetValue
	}
	if input.TargetMonth != nil {
		goal.TargetMonth = input.TargetMonth
	}
	if input.TargetYear != nil {
		goal.TargetYear = input.TargetYear
	}
	if input.Link != nil {
		goal.LinkedSubcategoryID = input.Link.SubcategoryID
		goal.LinkedCategoryKey = input.Link.CategoryKey
	}
	if input.Status != nil {
		goal.Status = *input.Status
	}
	goal.UpdatedAt = time.Now().UTC()

	if err := s.validate(ctx, goal); err != nil {
		return nil, err
	}

	return storage.Mutate(ctx, s.dispatcher, input.FamilyID, storage.Write[*entity.Goal]{
		Action: entity.SyncActionUpdate,
		Remote: func(ctx context.Context) (*entity.Goal, error) {
			return goal, s.remote.UpdateGoal(ctx, goal)
		},
		Local: func(ctx context.Context) (*entity.Goal, error) {
			return goal, storage.LocalPut(ctx, s.dispatcher.Local(), adapter.CollectionGoals, goal)
		},
	})
}

// ArchiveGoal archives a goal, releasing its link for other goals.
func (s *Service) ArchiveGoal(ctx context.Context, familyID, id string) (*entity.Goal, error) {
	archived := entity.GoalStatusArchived
	return s.UpdateGoal(ctx, UpdateGoalInput{FamilyID: familyID, ID: id, Status: &archived})
}

// DeleteGoal removes a goal and its entries.
func (s *Service) DeleteGoal(ctx context.Context, familyID, id string) error {
	if familyID == "" {
		return nil
	}

	tomb := entity.NewTombstone(entity.SyncEntityGoal, id)
	_, err := storage.Mutate(ctx, s.dispatcher, familyID, storage.Write[*entity.Tombstone]{
		Action: entity.SyncActionDelete,
		Remote: func(ctx context.Context) (*entity.Tombstone, error) {
			return tomb, s.remote.DeleteGoal(ctx, id)
		},
		Local: func(ctx context.Context) (*entity.Tombstone, error) {
			local := s.dispatcher.Local()
			if err := storage.LocalDeleteBy(ctx, local, adapter.CollectionGoalEntries, adapter.IndexGoalID, id); err != nil {
				return nil, err
			}
			return tomb, local.Delete(ctx, adapter.CollectionGoals, id)
		},
	})
	return err
}

// FindLinkedGoal returns the active goal an expense with the given subcategory and category
// contributes to: the goal linked to the subcategory, else the goal linked to the
// discretionary category. Returns nil when no goal is linked.
func (s *Service) FindLinkedGoal(ctx context.Context, familyID string, subcategoryID *string, categoryKey valueobject.CategoryKey) (*entity.Goal, error) {
	if familyID == "" {
		return nil, nil
	}

	goals, err := s.listGoals(ctx, familyID)
	if err != nil {
		return nil, err
	}

	if subcategoryID != nil && *subcategoryID != "" {
		for _, g := range goals {
			if g.IsActive() && g.LinkedSubcategoryID != nil && *g.LinkedSubcategoryID == *subcategoryID {
				return g, nil
			}
		}
	}

	if categoryKey == valueobject.DiscretionaryCategory {
		for _, g := range goals {
			if g.IsActive() && g.LinkedCategoryKey != nil && *g.LinkedCategoryKey == categoryKey {
				return g, nil
			}
		}
	}

	return nil, nil
}

// validate checks the payload and the link rules. Uniqueness only applies among active goals.
func (s *Service) validate(ctx context.Context, goal *entity.Goal) error {
	if err := validation.Struct(goal); err != nil {
		return err
	}

	if goal.LinkedSubcategoryID != nil && *goal.LinkedSubcategoryID == "" {
		goal.LinkedSubcategoryID = nil
	}
	if goal.LinkedSubcategoryID != nil && goal.LinkedCategoryKey != nil {
		return domainerror.NewGoalError(
			domainerror.ErrCodeAmbiguousGoalLink,
			"a goal can link a subcategory or a category, not both",
			domainerror.ErrAmbiguousGoalLink,
		)
	}
	if goal.LinkedCategoryKey != nil && *goal.LinkedCategoryKey != valueobject.DiscretionaryCategory {
		return domainerror.NewGoalError(
			domainerror.ErrCodeInvalidGoalCategory,
			fmt.Sprintf("only %s can be linked to a goal", valueobject.DiscretionaryCategory),
			domainerror.ErrInvalidGoalCategory,
		)
	}

	if !goal.IsActive() || (goal.LinkedSubcategoryID == nil && goal.LinkedCategoryKey == nil) {
		return nil
	}

	goals, err := s.listGoals(ctx, goal.FamilyID)
	if err != nil {
		return fmt.Errorf("failed to check goal links: %w", err)
	}

	for _, other := range goals {
		if other.ID == goal.ID || !other.IsActive() {
			continue
		}
		if goal.LinkedSubcategoryID != nil && other.LinkedSubcategoryID != nil &&
			*goal.LinkedSubcategoryID == *other.LinkedSubcategoryID {
			return domainerror.NewGoalError(
				domainerror.ErrCodeSubcategoryLinked,
				fmt.Sprintf("goal %q is already linked to this subcategory", other.Name),
				domainerror.ErrSubcategoryAlreadyLinked,
			)
		}
		if goal.LinkedCategoryKey != nil && other.LinkedCategoryKey != nil &&
			*goal.LinkedCategoryKey == *other.LinkedCategoryKey {
			return domainerror.NewGoalError(
				domainerror.ErrCodeCategoryLinked,
				fmt.Sprintf("goal %q is already linked to this category", other.Name),
				domainerror.ErrCategoryAlreadyLinked,
			)
		}
	}

	return nil
}

func (s *Service) listGoals(ctx context.Context, familyID string) ([]*entity.Goal, error) {
	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.Goal, error) {
			return s.remote.ListGoals(ctx, familyID)
		},
		func(ctx context.Context) ([]*entity.Goal, error) {
			return storage.LocalListBy[entity.Goal](ctx, s.dispatcher.Local(), adapter.CollectionGoals, adapter.IndexFamilyID, familyID)
		},
	)
}

func (s *Service) getGoal(ctx context.Context, familyID, id string) (*entity.Goal, error) {
	return storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) (*entity.Goal, error) {
			return s.remote.GetGoal(ctx, id)
		},
		func(ctx context.Context) (*entity.Goal, error) {
			return storage.LocalGet[entity.Goal](ctx, s.dispatcher.Local(), adapter.CollectionGoals, id)
		},
	)
}

// withProgress sums the entries of every goal from one batched entry read.
func (s *Service) withProgress(ctx context.Context, familyID string, goals []*entity.Goal) ([]*entity.GoalProgress, error) {
	ids := make([]string, len(goals))
	wanted := make(map[string]struct{}, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
		wanted[g.ID] = struct{}{}
	}

	entries, err := storage.Read(ctx, s.dispatcher, familyID,
		func(ctx context.Context) ([]*entity.GoalEntry, error) {
			return s.remote.ListGoalEntries(ctx, ids)
		},
		func(ctx context.Context) ([]*entity.GoalEntry, error) {
			return storage.LocalListBy[entity.GoalEntry](ctx, s.dispatcher.Local(), adapter.CollectionGoalEntries, adapter.IndexFamilyID, familyID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal entries: %w", err)
	}

	byGoal := make(map[string][]*entity.GoalEntry, len(goals))
	for _, e := range entries {
		if _, ok := wanted[e.GoalID]; ok {
			byGoal[e.GoalID] = append(byGoal[e.GoalID], e)
		}
	}

	progress := make([]*entity.GoalProgress, len(goals))
	for i, g := range goals {
		progress[i] = &entity.GoalProgress{
			Goal:         g,
			CurrentValue: entity.SumEntries(byGoal[g.ID]),
		}
	}
	return progress, nil
}
