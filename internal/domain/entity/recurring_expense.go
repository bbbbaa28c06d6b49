package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// RecurringExpense is a template that materializes an Expense in every month it is active.
type RecurringExpense struct {
	ID            string                  `json:"id"`
	FamilyID      string                  `json:"family_id" validate:"required"`
	Title         string                  `json:"title" validate:"required,max=200"`
	CategoryKey   valueobject.CategoryKey `json:"category_key" validate:"required"`
	SubcategoryID *string                 `json:"subcategory_id,omitempty"`
	Value         decimal.Decimal         `json:"value" validate:"gte=0"`
	DueDay        *int                    `json:"due_day,omitempty" validate:"omitempty,gte=1,lte=31"`
	StartYear     int                     `json:"start_year" validate:"gte=1970,lte=9999"`
	StartMonth    int                     `json:"start_month" validate:"gte=1,lte=12"`
	// Installments limits the number of months the expense repeats; nil repeats forever.
	Installments *int      `json:"installments,omitempty" validate:"omitempty,gte=1"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewRecurringExpense creates a new RecurringExpense entity.
func NewRecurringExpense(familyID, title string, categoryKey valueobject.CategoryKey, value decimal.Decimal, startYear, startMonth int, local bool) *RecurringExpense {
	now := time.Now().UTC()
	id := uuid.NewString()
	if local {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixRecurring)
	}

	return &RecurringExpense{
		ID:          id,
		FamilyID:    familyID,
		Title:       title,
		CategoryKey: categoryKey,
		Value:       value,
		StartYear:   startYear,
		StartMonth:  startMonth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordID implements Record.
func (r *RecurringExpense) RecordID() string { return r.ID }

// SyncEntity implements Record.
func (r *RecurringExpense) SyncEntity() SyncEntity { return SyncEntityRecurringExpense }

// Inclusion is the result of testing a recurring expense against a month.
type Inclusion struct {
	Include           bool
	InstallmentNumber *int
}
