package dto

import (
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// InsertExpenseRequest represents the request body for expense creation.
type InsertExpenseRequest struct {
	MonthID            string                  `json:"month_id" binding:"required"`
	Title              string                  `json:"title" binding:"required"`
	CategoryKey        valueobject.CategoryKey `json:"category_key" binding:"required"`
	SubcategoryID      *string                 `json:"subcategory_id,omitempty"`
	Value              decimal.Decimal         `json:"value"`
	IsRecurring        bool                    `json:"is_recurring"`
	IsPending          bool                    `json:"is_pending"`
	DueDay             *int                    `json:"due_day,omitempty"`
	RecurringExpenseID *string                 `json:"recurring_expense_id,omitempty"`
	InstallmentCurrent *int                    `json:"installment_current,omitempty"`
	InstallmentTotal   *int                    `json:"installment_total,omitempty"`
}

// UpdateExpenseRequest represents the request body for a partial expense update.
// ClearSubcategory removes the subcategory; otherwise a nil SubcategoryID leaves it unchanged.
type UpdateExpenseRequest struct {
	Title            *string                  `json:"title,omitempty"`
	CategoryKey      *valueobject.CategoryKey `json:"category_key,omitempty"`
	SubcategoryID    *string                  `json:"subcategory_id,omitempty"`
	ClearSubcategory bool                     `json:"clear_subcategory,omitempty"`
	Value            *decimal.Decimal         `json:"value,omitempty"`
	IsPending        *bool                    `json:"is_pending,omitempty"`
	DueDay           *int                     `json:"due_day,omitempty"`
}

// SetPendingRequest represents the request body for toggling the pending flag.
type SetPendingRequest struct {
	IsPending bool `json:"is_pending"`
}

// OptionalID turns a value/clear pair into the double pointer of partial updates.
func OptionalID(id *string, clear bool) **string {
	if clear {
		var none *string
		return &none
	}
	if id == nil {
		return nil
	}
	return &id
}
