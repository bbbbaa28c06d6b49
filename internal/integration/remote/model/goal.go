package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// GoalModel represents the goals table in the database. There is no stored current value:
// progress is always summed from goal_entries.
type GoalModel struct {
	ID                  string          `gorm:"type:varchar(255);primaryKey"`
	FamilyID            string          `gorm:"type:varchar(255);not null;index"`
	Name                string          `gorm:"type:varchar(100);not null"`
	TargetValue         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TargetMonth         *int
	TargetYear          *int
	LinkedSubcategoryID *string   `gorm:"type:varchar(255);index"`
	LinkedCategoryKey   *string   `gorm:"type:varchar(32)"`
	Status              string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for the GoalModel.
func (GoalModel) TableName() string {
	return "goals"
}

// ToEntity converts a GoalModel to a domain Goal entity.
func (m *GoalModel) ToEntity() *entity.Goal {
	var key *valueobject.CategoryKey
	if m.LinkedCategoryKey != nil {
		k := valueobject.CategoryKey(*m.LinkedCategoryKey)
		key = &k
	}

	return &entity.Goal{
		ID:                  m.ID,
		FamilyID:            m.FamilyID,
		Name:                m.Name,
		TargetValue:         m.TargetValue,
		TargetMonth:         m.TargetMonth,
		TargetYear:          m.TargetYear,
		LinkedSubcategoryID: m.LinkedSubcategoryID,
		LinkedCategoryKey:   key,
		Status:              entity.GoalStatus(m.Status),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// GoalFromEntity creates a GoalModel from a domain Goal entity.
func GoalFromEntity(goal *entity.Goal) *GoalModel {
	var key *string
	if goal.LinkedCategoryKey != nil {
		k := string(*goal.LinkedCategoryKey)
		key = &k
	}

	return &GoalModel{
		ID:                  goal.ID,
		FamilyID:            goal.FamilyID,
		Name:                goal.Name,
		TargetValue:         goal.TargetValue,
		TargetMonth:         goal.TargetMonth,
		TargetYear:          goal.TargetYear,
		LinkedSubcategoryID: goal.LinkedSubcategoryID,
		LinkedCategoryKey:   key,
		Status:              string(goal.Status),
		CreatedAt:           goal.CreatedAt,
		UpdatedAt:           goal.UpdatedAt,
	}
}

// GoalEntryModel represents the goal_entries table in the database.
type GoalEntryModel struct {
	ID          string          `gorm:"type:varchar(255);primaryKey"`
	GoalID      string          `gorm:"type:varchar(255);not null;index"`
	FamilyID    string          `gorm:"type:varchar(255);not null;index"`
	ExpenseID   *string         `gorm:"type:varchar(255);index"`
	Value       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description string          `gorm:"type:varchar(200)"`
	Month       int             `gorm:"not null"`
	Year        int             `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GoalEntryModel.
func (GoalEntryModel) TableName() string {
	return "goal_entries"
}

// ToEntity converts a GoalEntryModel to a domain GoalEntry entity.
func (m *GoalEntryModel) ToEntity() *entity.GoalEntry {
	return &entity.GoalEntry{
		ID:          m.ID,
		GoalID:      m.GoalID,
		FamilyID:    m.FamilyID,
		ExpenseID:   m.ExpenseID,
		Value:       m.Value,
		Description: m.Description,
		Month:       m.Month,
		Year:        m.Year,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// GoalEntryFromEntity creates a GoalEntryModel from a domain GoalEntry entity.
func GoalEntryFromEntity(entry *entity.GoalEntry) *GoalEntryModel {
	return &GoalEntryModel{
		ID:          entry.ID,
		GoalID:      entry.GoalID,
		FamilyID:    entry.FamilyID,
		ExpenseID:   entry.ExpenseID,
		Value:       entry.Value,
		Description: entry.Description,
		Month:       entry.Month,
		Year:        entry.Year,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

// All lists every remote model for migration.
func All() []any {
	return []any{
		&FamilyModel{},
		&FamilyMemberModel{},
		&FamilyInvitationModel{},
		&UserPreferenceModel{},
		&MonthModel{},
		&CategoryLimitModel{},
		&IncomeSourceModel{},
		&ExpenseModel{},
		&RecurringExpenseModel{},
		&SubcategoryModel{},
		&GoalModel{},
		&GoalEntryModel{},
	}
}
