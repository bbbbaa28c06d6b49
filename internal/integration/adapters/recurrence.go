package adapters

import (
	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/entity"
)

// IncludeRecurring is the monthly inclusion test for recurring expenses.
// An expense is included from its start month onwards, for Installments months when set.
// The installment number counts from 1 at the start month.
func IncludeRecurring(expense *entity.RecurringExpense, year, month int) entity.Inclusion {
	if expense == nil {
		return entity.Inclusion{}
	}

	offset := (year*12 + month) - (expense.StartYear*12 + expense.StartMonth)
	if offset < 0 {
		return entity.Inclusion{}
	}

	if expense.Installments == nil {
		return entity.Inclusion{Include: true}
	}
	if offset >= *expense.Installments {
		return entity.Inclusion{}
	}

	number := offset + 1
	return entity.Inclusion{Include: true, InstallmentNumber: &number}
}

var _ adapter.InclusionTest = IncludeRecurring
