package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
)

func TestStruct(t *testing.T) {
	t.Run("valid expense passes", func(t *testing.T) {
		expense := entity.NewExpense("family-1", "month-1", "Groceries", "conforto", decimal.NewFromInt(120), true)
		if err := Struct(expense); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("negative value is rejected", func(t *testing.T) {
		expense := entity.NewExpense("family-1", "month-1", "Refund", "conforto", decimal.NewFromInt(-5), true)
		err := Struct(expense)
		if !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
		if !strings.Contains(err.Error(), "value") {
			t.Errorf("expected error to name the value field, got %q", err.Error())
		}
	})

	t.Run("out of range month is rejected", func(t *testing.T) {
		month := entity.NewMonth("family-1", 2025, 13, true)
		if err := Struct(month); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		sub := entity.NewSubcategory("family-1", "", "conforto", true)
		if err := Struct(sub); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
	})

	t.Run("goal target must be positive", func(t *testing.T) {
		goal := entity.NewGoal("family-1", "Trip", decimal.Zero, true)
		if err := Struct(goal); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
	})
}
