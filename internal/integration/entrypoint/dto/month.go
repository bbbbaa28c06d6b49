package dto

import (
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// InsertMonthRequest represents the request body for month creation.
type InsertMonthRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// UpdateLimitsRequest represents the request body for replacing the limits of a month.
type UpdateLimitsRequest struct {
	Limits map[valueobject.CategoryKey]float64 `json:"limits" binding:"required"`
}

// LimitsResponse represents the limits of a month.
type LimitsResponse struct {
	MonthID string                              `json:"month_id"`
	Limits  map[valueobject.CategoryKey]float64 `json:"limits"`
}

// MonthDetailsResponse represents a month with its limits and income.
type MonthDetailsResponse struct {
	*entity.Month
	Limits        map[valueobject.CategoryKey]float64 `json:"limits"`
	IncomeSources []*entity.IncomeSource              `json:"income_sources"`
	TotalIncome   decimal.Decimal                     `json:"total_income"`
}

// ToMonthDetailsResponse converts month details to a MonthDetailsResponse DTO.
func ToMonthDetailsResponse(d *entity.MonthDetails) MonthDetailsResponse {
	return MonthDetailsResponse{
		Month:         d.Month,
		Limits:        d.Limits,
		IncomeSources: nonNil(d.IncomeSources),
		TotalIncome:   d.Income,
	}
}

// IncomeSourceRequest represents the request body for adding an income source.
type IncomeSourceRequest struct {
	Name  string          `json:"name" binding:"required"`
	Value decimal.Decimal `json:"value"`
}

// UpdateIncomeSourceRequest represents the request body for a partial income source update.
type UpdateIncomeSourceRequest struct {
	Name  *string          `json:"name,omitempty"`
	Value *decimal.Decimal `json:"value,omitempty"`
}
