package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// Expense is a single spending record of a month.
type Expense struct {
	ID                 string                  `json:"id"`
	FamilyID           string                  `json:"family_id" validate:"required"`
	MonthID            string                  `json:"month_id" validate:"required"`
	Title              string                  `json:"title" validate:"required,max=200"`
	CategoryKey        valueobject.CategoryKey `json:"category_key" validate:"required"`
	SubcategoryID      *string                 `json:"subcategory_id,omitempty"`
	Value              decimal.Decimal         `json:"value" validate:"gte=0"`
	IsRecurring        bool                    `json:"is_recurring"`
	IsPending          bool                    `json:"is_pending"`
	DueDay             *int                    `json:"due_day,omitempty" validate:"omitempty,gte=1,lte=31"`
	RecurringExpenseID *string                 `json:"recurring_expense_id,omitempty"`
	InstallmentCurrent *int                    `json:"installment_current,omitempty" validate:"omitempty,gte=1"`
	InstallmentTotal   *int                    `json:"installment_total,omitempty" validate:"omitempty,gte=1"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// NewExpense creates a new Expense entity.
func NewExpense(familyID, monthID, title string, categoryKey valueobject.CategoryKey, value decimal.Decimal, local bool) *Expense {
	now := time.Now().UTC()
	id := uuid.NewString()
	if local {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixExpense)
	}

	return &Expense{
		ID:          id,
		FamilyID:    familyID,
		MonthID:     monthID,
		Title:       title,
		CategoryKey: categoryKey,
		Value:       value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordID implements Record.
func (e *Expense) RecordID() string { return e.ID }

// SyncEntity implements Record.
func (e *Expense) SyncEntity() SyncEntity { return SyncEntityExpense }
