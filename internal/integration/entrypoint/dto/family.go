package dto

import (
	"github.com/family-budget/backend/internal/application/usecase/session"
	"github.com/family-budget/backend/internal/domain/entity"
)

// CreateFamilyRequest represents the request body for family creation.
type CreateFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

// SelectFamilyRequest represents the request body for switching the current family.
type SelectFamilyRequest struct {
	FamilyID string `json:"family_id"`
}

// CurrentFamilyResponse represents the current family selection.
type CurrentFamilyResponse struct {
	FamilyID string `json:"family_id"`
}

// InviteMemberRequest represents the request body for inviting a member.
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required"`
}

// SnapshotResponse is the data of the current family.
type SnapshotResponse struct {
	FamilyID      string                     `json:"family_id"`
	Months        []*entity.Month            `json:"months"`
	Goals         []GoalResponse             `json:"goals"`
	Subcategories []*entity.Subcategory      `json:"subcategories"`
	Recurring     []*entity.RecurringExpense `json:"recurring_expenses"`
}

// ToSnapshotResponse converts a loaded snapshot.
func ToSnapshotResponse(s *session.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		FamilyID:      s.FamilyID,
		Months:        nonNil(s.Months),
		Goals:         ToGoalListResponse(s.Goals),
		Subcategories: nonNil(s.Subcategories),
		Recurring:     nonNil(s.Recurring),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
