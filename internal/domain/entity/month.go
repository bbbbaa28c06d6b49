package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// Month is a budgeting period of a family.
type Month struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id" validate:"required"`
	Year     int    `json:"year" validate:"gte=1970,lte=9999"`
	Month    int    `json:"month" validate:"gte=1,lte=12"`
	// Income is the legacy stored income, used only when the month has no income sources.
	Income    decimal.Decimal `json:"income" validate:"gte=0"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewMonth creates a month. Months of offline-origin families get a composite local id.
func NewMonth(familyID string, year, month int, local bool) *Month {
	id := uuid.NewString()
	if local {
		id = valueobject.MonthLocalID(familyID, year, month)
	}

	return &Month{
		ID:        id,
		FamilyID:  familyID,
		Year:      year,
		Month:     month,
		Income:    decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
}

// RecordID implements Record.
func (m *Month) RecordID() string { return m.ID }

// SyncEntity implements Record.
func (m *Month) SyncEntity() SyncEntity { return SyncEntityMonth }

// Before reports whether m is chronologically earlier than (year, month).
func (m *Month) Before(year, month int) bool {
	if m.Year != year {
		return m.Year < year
	}
	return m.Month < month
}

// CategoryLimit is the percentage of a month's income assigned to a category.
type CategoryLimit struct {
	ID          string                  `json:"id"`
	MonthID     string                  `json:"month_id" validate:"required"`
	FamilyID    string                  `json:"family_id" validate:"required"`
	CategoryKey valueobject.CategoryKey `json:"category_key" validate:"required"`
	Percentage  float64                 `json:"percentage" validate:"gte=0,lte=100"`
}

// NewCategoryLimit creates a new CategoryLimit entity.
func NewCategoryLimit(familyID, monthID string, key valueobject.CategoryKey, percentage float64, local bool) *CategoryLimit {
	id := uuid.NewString()
	if local {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixGeneric)
	}

	return &CategoryLimit{
		ID:          id,
		MonthID:     monthID,
		FamilyID:    familyID,
		CategoryKey: key,
		Percentage:  percentage,
	}
}

// RecordID implements Record.
func (l *CategoryLimit) RecordID() string { return l.ID }

// SyncEntity implements Record.
func (l *CategoryLimit) SyncEntity() SyncEntity { return SyncEntityCategoryLimit }

// CategoryLimitSet is the full replacement of a month's limits, as carried by the sync queue.
type CategoryLimitSet struct {
	MonthID  string                              `json:"month_id"`
	FamilyID string                              `json:"family_id"`
	Limits   map[valueobject.CategoryKey]float64 `json:"limits"`
}

// RecordID implements Record.
func (s *CategoryLimitSet) RecordID() string { return s.MonthID }

// SyncEntity implements Record.
func (s *CategoryLimitSet) SyncEntity() SyncEntity { return SyncEntityCategoryLimit }

// IncomeSource is one named income of a month.
type IncomeSource struct {
	ID        string          `json:"id"`
	MonthID   string          `json:"month_id" validate:"required"`
	FamilyID  string          `json:"family_id" validate:"required"`
	Name      string          `json:"name" validate:"required,max=100"`
	Value     decimal.Decimal `json:"value" validate:"gte=0"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewIncomeSource creates a new IncomeSource entity.
func NewIncomeSource(familyID, monthID, name string, value decimal.Decimal, local bool) *IncomeSource {
	id := uuid.NewString()
	if local {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixIncome)
	}

	return &IncomeSource{
		ID:        id,
		MonthID:   monthID,
		FamilyID:  familyID,
		Name:      name,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}
}

// RecordID implements Record.
func (s *IncomeSource) RecordID() string { return s.ID }

// SyncEntity implements Record.
func (s *IncomeSource) SyncEntity() SyncEntity { return SyncEntityIncomeSource }

// MonthDetails is a month with its limits and derived income.
type MonthDetails struct {
	Month         *Month
	Limits        map[valueobject.CategoryKey]float64
	IncomeSources []*IncomeSource
	Income        decimal.Decimal
}

// DeriveIncome sums the income sources, falling back to the legacy stored income.
func DeriveIncome(month *Month, sources []*IncomeSource) decimal.Decimal {
	if len(sources) == 0 {
		return month.Income
	}

	total := decimal.Zero
	for _, s := range sources {
		total = total.Add(s.Value)
	}
	return total
}
