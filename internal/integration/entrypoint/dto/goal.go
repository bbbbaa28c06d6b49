package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// CreateGoalRequest represents the request body for goal creation.
type CreateGoalRequest struct {
	Name                string                   `json:"name" binding:"required"`
	TargetValue         decimal.Decimal          `json:"target_value"`
	TargetMonth         *int                     `json:"target_month,omitempty"`
	TargetYear          *int                     `json:"target_year,omitempty"`
	LinkedSubcategoryID *string                  `json:"linked_subcategory_id,omitempty"`
	LinkedCategoryKey   *valueobject.CategoryKey `json:"linked_category_key,omitempty"`
}

// UpdateGoalRequest represents the request body for a partial goal update.
// Link fields are applied only when UpdateLink is true; both nil unlinks the goal.
type UpdateGoalRequest struct {
	Name                *string                  `json:"name,omitempty"`
	TargetValue         *decimal.Decimal         `json:"target_value,omitempty"`
	TargetMonth         *int                     `json:"target_month,omitempty"`
	TargetYear          *int                     `json:"target_year,omitempty"`
	UpdateLink          bool                     `json:"update_link,omitempty"`
	LinkedSubcategoryID *string                  `json:"linked_subcategory_id,omitempty"`
	LinkedCategoryKey   *valueobject.CategoryKey `json:"linked_category_key,omitempty"`
	Status              *entity.GoalStatus       `json:"status,omitempty"`
}

// GoalResponse represents a goal with its progress.
type GoalResponse struct {
	ID                  string                   `json:"id"`
	FamilyID            string                   `json:"family_id"`
	Name                string                   `json:"name"`
	TargetValue         decimal.Decimal          `json:"target_value"`
	CurrentValue        decimal.Decimal          `json:"current_value"`
	TargetMonth         *int                     `json:"target_month,omitempty"`
	TargetYear          *int                     `json:"target_year,omitempty"`
	LinkedSubcategoryID *string                  `json:"linked_subcategory_id,omitempty"`
	LinkedCategoryKey   *valueobject.CategoryKey `json:"linked_category_key,omitempty"`
	Status              entity.GoalStatus        `json:"status"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// ToGoalResponse converts a goal and its current value to a GoalResponse DTO.
func ToGoalResponse(goal *entity.Goal, current decimal.Decimal) GoalResponse {
	return GoalResponse{
		ID:                  goal.ID,
		FamilyID:            goal.FamilyID,
		Name:                goal.Name,
		TargetValue:         goal.TargetValue,
		CurrentValue:        current,
		TargetMonth:         goal.TargetMonth,
		TargetYear:          goal.TargetYear,
		LinkedSubcategoryID: goal.LinkedSubcategoryID,
		LinkedCategoryKey:   goal.LinkedCategoryKey,
		Status:              goal.Status,
		CreatedAt:           goal.CreatedAt,
		UpdatedAt:           goal.UpdatedAt,
	}
}

// ToGoalListResponse converts goals with progress to GoalResponse DTOs.
func ToGoalListResponse(goals []*entity.GoalProgress) []GoalResponse {
	response := make([]GoalResponse, 0, len(goals))
	for _, g := range goals {
		response = append(response, ToGoalResponse(g.Goal, g.CurrentValue))
	}
	return response
}

// CreateGoalEntryRequest represents the request body for a manual goal entry.
type CreateGoalEntryRequest struct {
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	Month       int             `json:"month" binding:"required"`
	Year        int             `json:"year" binding:"required"`
}

// UpdateGoalEntryRequest represents the request body for a partial goal entry update.
type UpdateGoalEntryRequest struct {
	GoalID      *string          `json:"goal_id,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
	Description *string          `json:"description,omitempty"`
	Month       *int             `json:"month,omitempty"`
	Year        *int             `json:"year,omitempty"`
}
