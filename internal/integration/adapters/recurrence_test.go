package adapters

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

func TestIncludeRecurring(t *testing.T) {
	three := 3
	open := entity.NewRecurringExpense("f", "Netflix", valueobject.CategoryPleasures, decimal.NewFromInt(40), 2024, 11, false)
	installments := entity.NewRecurringExpense("f", "Laptop", valueobject.CategoryKnowledge, decimal.NewFromInt(500), 2024, 11, false)
	installments.Installments = &three

	tests := []struct {
		name           string
		expense        *entity.RecurringExpense
		year, month    int
		expectedInc    bool
		expectedNumber int
	}{
		{"before start", open, 2024, 10, false, 0},
		{"start month", open, 2024, 11, true, 0},
		{"years later", open, 2030, 1, true, 0},
		{"first installment", installments, 2024, 11, true, 1},
		{"crosses the year", installments, 2025, 1, true, 3},
		{"after last installment", installments, 2025, 2, false, 0},
		{"nil expense", nil, 2025, 1, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IncludeRecurring(tt.expense, tt.year, tt.month)
			if got.Include != tt.expectedInc {
				t.Fatalf("expected include=%v, got %v", tt.expectedInc, got.Include)
			}
			if tt.expectedNumber == 0 {
				if got.InstallmentNumber != nil {
					t.Errorf("expected no installment number, got %d", *got.InstallmentNumber)
				}
				return
			}
			if got.InstallmentNumber == nil || *got.InstallmentNumber != tt.expectedNumber {
				t.Errorf("expected installment %d, got %v", tt.expectedNumber, got.InstallmentNumber)
			}
		})
	}
}
