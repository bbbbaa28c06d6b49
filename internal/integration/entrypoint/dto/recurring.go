package dto

import (
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// CreateRecurringRequest represents the request body for recurring expense creation.
type CreateRecurringRequest struct {
	Title         string                  `json:"title" binding:"required"`
	CategoryKey   valueobject.CategoryKey `json:"category_key" binding:"required"`
	SubcategoryID *string                 `json:"subcategory_id,omitempty"`
	Value         decimal.Decimal         `json:"value"`
	DueDay        *int                    `json:"due_day,omitempty"`
	StartYear     int                     `json:"start_year" binding:"required"`
	StartMonth    int                     `json:"start_month" binding:"required"`
	Installments  *int                    `json:"installments,omitempty"`
}

// UpdateRecurringRequest represents the request body for a partial recurring expense update.
type UpdateRecurringRequest struct {
	Title             *string                  `json:"title,omitempty"`
	CategoryKey       *valueobject.CategoryKey `json:"category_key,omitempty"`
	SubcategoryID     *string                  `json:"subcategory_id,omitempty"`
	ClearSubcategory  bool                     `json:"clear_subcategory,omitempty"`
	Value             *decimal.Decimal         `json:"value,omitempty"`
	DueDay            *int                     `json:"due_day,omitempty"`
	StartYear         *int                     `json:"start_year,omitempty"`
	StartMonth        *int                     `json:"start_month,omitempty"`
	Installments      *int                     `json:"installments,omitempty"`
	ClearInstallments bool                     `json:"clear_installments,omitempty"`
}

// OptionalInt turns a value/clear pair into the double pointer of partial updates.
func OptionalInt(v *int, clear bool) **int {
	if clear {
		var none *int
		return &none
	}
	if v == nil {
		return nil
	}
	return &v
}
