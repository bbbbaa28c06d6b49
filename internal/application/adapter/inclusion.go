// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "github.com/family-budget/backend/internal/domain/entity"

// InclusionTest decides whether a recurring expense materializes in (year, month).
type InclusionTest func(expense *entity.RecurringExpense, year, month int) entity.Inclusion
