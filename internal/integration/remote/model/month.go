package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// MonthModel represents the months table in the database.
type MonthModel struct {
	ID        string          `gorm:"type:varchar(255);primaryKey"`
	FamilyID  string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_family_period"`
	Year      int             `gorm:"not null;uniqueIndex:idx_family_period"`
	Month     int             `gorm:"not null;uniqueIndex:idx_family_period"`
	Income    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for the MonthModel.
func (MonthModel) TableName() string {
	return "months"
}

// ToEntity converts a MonthModel to a domain Month entity.
func (m *MonthModel) ToEntity() *entity.Month {
	return &entity.Month{
		ID:        m.ID,
		FamilyID:  m.FamilyID,
		Year:      m.Year,
		Month:     m.Month,
		Income:    m.Income,
		CreatedAt: m.CreatedAt,
	}
}

// MonthFromEntity creates a MonthModel from a domain Month entity.
func MonthFromEntity(month *entity.Month) *MonthModel {
	return &MonthModel{
		ID:        month.ID,
		FamilyID:  month.FamilyID,
		Year:      month.Year,
		Month:     month.Month,
		Income:    month.Income,
		CreatedAt: month.CreatedAt,
	}
}

// CategoryLimitModel represents the category_limits table in the database.
type CategoryLimitModel struct {
	ID          string  `gorm:"type:varchar(255);primaryKey"`
	MonthID     string  `gorm:"type:varchar(255);not null;index"`
	FamilyID    string  `gorm:"type:varchar(255);not null;index"`
	CategoryKey string  `gorm:"type:varchar(32);not null"`
	Percentage  float64 `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for the CategoryLimitModel.
func (CategoryLimitModel) TableName() string {
	return "category_limits"
}

// ToEntity converts a CategoryLimitModel to a domain CategoryLimit entity.
func (m *CategoryLimitModel) ToEntity() *entity.CategoryLimit {
	return &entity.CategoryLimit{
		ID:          m.ID,
		MonthID:     m.MonthID,
		FamilyID:    m.FamilyID,
		CategoryKey: valueobject.CategoryKey(m.CategoryKey),
		Percentage:  m.Percentage,
	}
}

// CategoryLimitFromEntity creates a CategoryLimitModel from a domain CategoryLimit entity.
func CategoryLimitFromEntity(limit *entity.CategoryLimit) *CategoryLimitModel {
	return &CategoryLimitModel{
		ID:          limit.ID,
		MonthID:     limit.MonthID,
		FamilyID:    limit.FamilyID,
		CategoryKey: string(limit.CategoryKey),
		Percentage:  limit.Percentage,
	}
}

// IncomeSourceModel represents the income_sources table in the database.
type IncomeSourceModel struct {
	ID        string          `gorm:"type:varchar(255);primaryKey"`
	MonthID   string          `gorm:"type:varchar(255);not null;index"`
	FamilyID  string          `gorm:"type:varchar(255);not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Value     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for the IncomeSourceModel.
func (IncomeSourceModel) TableName() string {
	return "income_sources"
}

// ToEntity converts an IncomeSourceModel to a domain IncomeSource entity.
func (m *IncomeSourceModel) ToEntity() *entity.IncomeSource {
	return &entity.IncomeSource{
		ID:        m.ID,
		MonthID:   m.MonthID,
		FamilyID:  m.FamilyID,
		Name:      m.Name,
		Value:     m.Value,
		CreatedAt: m.CreatedAt,
	}
}

// IncomeSourceFromEntity creates an IncomeSourceModel from a domain IncomeSource entity.
func IncomeSourceFromEntity(source *entity.IncomeSource) *IncomeSourceModel {
	return &IncomeSourceModel{
		ID:        source.ID,
		MonthID:   source.MonthID,
		FamilyID:  source.FamilyID,
		Name:      source.Name,
		Value:     source.Value,
		CreatedAt: source.CreatedAt,
	}
}
