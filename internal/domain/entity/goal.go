package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

const (
	GoalStatusActive   GoalStatus = "active"
	GoalStatusArchived GoalStatus = "archived"
)

// Goal is a savings target of a family. Its current value is always derived from its entries.
type Goal struct {
	ID                  string                   `json:"id"`
	FamilyID            string                   `json:"family_id" validate:"required"`
	Name                string                   `json:"name" validate:"required,max=100"`
	TargetValue         decimal.Decimal          `json:"target_value" validate:"gt=0"`
	TargetMonth         *int                     `json:"target_month,omitempty" validate:"omitempty,gte=1,lte=12"`
	TargetYear          *int                     `json:"target_year,omitempty" validate:"omitempty,gte=1970,lte=9999"`
	LinkedSubcategoryID *string                  `json:"linked_subcategory_id,omitempty"`
	LinkedCategoryKey   *valueobject.CategoryKey `json:"linked_category_key,omitempty"`
	Status              GoalStatus               `json:"status" validate:"required,oneof=active archived"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// NewGoal creates a new active Goal entity.
func NewGoal(familyID, name string, targetValue decimal.Decimal, local bool) *Goal {
	now := time.Now().UTC()
	id := uuid.NewString()
	if local {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixGoal)
	}

	return &Goal{
		ID:          id,
		FamilyID:    familyID,
		Name:        name,
		TargetValue: targetValue,
		Status:      GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordID implements Record.
func (g *Goal) RecordID() string { return g.ID }

// SyncEntity implements Record.
func (g *Goal) SyncEntity() SyncEntity { return SyncEntityGoal }

// IsActive reports whether the goal takes part in linkage and uniqueness rules.
func (g *Goal) IsActive() bool {
	return g.Status != GoalStatusArchived
}

// GoalProgress is a goal enriched with the live sum of its entries.
type GoalProgress struct {
	Goal         *Goal
	CurrentValue decimal.Decimal
}

// GoalEntry is a contribution towards a goal.
type GoalEntry struct {
	ID       string `json:"id"`
	GoalID   string `json:"goal_id" validate:"required"`
	FamilyID string `json:"family_id" validate:"required"`
	// ExpenseID is set only on entries generated from an expense.
	ExpenseID   *string         `json:"expense_id,omitempty"`
	Value       decimal.Decimal `json:"value" validate:"gte=0"`
	Description string          `json:"description" validate:"max=200"`
	Month       int             `json:"month" validate:"gte=1,lte=12"`
	Year        int             `json:"year" validate:"gte=1970,lte=9999"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewGoalEntry creates a new GoalEntry entity.
func NewGoalEntry(familyID, goalID string, value decimal.Decimal, description string, month, year int, local bool) *GoalEntry {
	now := time.Now().UTC()
	id := uuid.NewString()
	if local {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixGoalEntry)
	}

	return &GoalEntry{
		ID:          id,
		GoalID:      goalID,
		FamilyID:    familyID,
		Value:       value,
		Description: description,
		Month:       month,
		Year:        year,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordID implements Record.
func (e *GoalEntry) RecordID() string { return e.ID }

// SyncEntity implements Record.
func (e *GoalEntry) SyncEntity() SyncEntity { return SyncEntityGoalEntry }

// IsAutomatic reports whether the entry was generated from an expense.
func (e *GoalEntry) IsAutomatic() bool {
	return e.ExpenseID != nil && *e.ExpenseID != ""
}

// SumEntries returns the exact total of the given entries.
func SumEntries(entries []*GoalEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Value)
	}
	return total
}
