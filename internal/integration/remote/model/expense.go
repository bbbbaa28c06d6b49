package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/family-budget/backend/internal/domain/entity"
	"github.com/family-budget/backend/internal/domain/valueobject"
)

// ExpenseModel represents the expenses table in the database.
type ExpenseModel struct {
	ID                 string          `gorm:"type:varchar(255);primaryKey"`
	FamilyID           string          `gorm:"type:varchar(255);not null;index"`
	MonthID            string          `gorm:"type:varchar(255);not null;index"`
	Title              string          `gorm:"type:varchar(200);not null"`
	CategoryKey        string          `gorm:"type:varchar(32);not null"`
	SubcategoryID      *string         `gorm:"type:varchar(255);index"`
	Value              decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IsRecurring        bool            `gorm:"not null;default:false"`
	IsPending          bool            `gorm:"not null;default:false"`
	DueDay             *int
	RecurringExpenseID *string `gorm:"type:varchar(255);index"`
	InstallmentCurrent *int
	InstallmentTotal   *int
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	return &entity.Expense{
		ID:                 m.ID,
		FamilyID:           m.FamilyID,
		MonthID:            m.MonthID,
		Title:              m.Title,
		CategoryKey:        valueobject.CategoryKey(m.CategoryKey),
		SubcategoryID:      m.SubcategoryID,
		Value:              m.Value,
		IsRecurring:        m.IsRecurring,
		IsPending:          m.IsPending,
		DueDay:             m.DueDay,
		RecurringExpenseID: m.RecurringExpenseID,
		InstallmentCurrent: m.InstallmentCurrent,
		InstallmentTotal:   m.InstallmentTotal,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ExpenseFromEntity creates an ExpenseModel from a domain Expense entity.
func ExpenseFromEntity(expense *entity.Expense) *ExpenseModel {
	return &ExpenseModel{
		ID:                 expense.ID,
		FamilyID:           expense.FamilyID,
		MonthID:            expense.MonthID,
		Title:              expense.Title,
		CategoryKey:        string(expense.CategoryKey),
		SubcategoryID:      expense.SubcategoryID,
		Value:              expense.Value,
		IsRecurring:        expense.IsRecurring,
		IsPending:          expense.IsPending,
		DueDay:             expense.DueDay,
		RecurringExpenseID: expense.RecurringExpenseID,
		InstallmentCurrent: expense.InstallmentCurrent,
		InstallmentTotal:   expense.InstallmentTotal,
		CreatedAt:          expense.CreatedAt,
		UpdatedAt:          expense.UpdatedAt,
	}
}

// RecurringExpenseModel represents the recurring_expenses table in the database.
type RecurringExpenseModel struct {
	ID            string          `gorm:"type:varchar(255);primaryKey"`
	FamilyID      string          `gorm:"type:varchar(255);not null;index"`
	Title         string          `gorm:"type:varchar(200);not null"`
	CategoryKey   string          `gorm:"type:varchar(32);not null"`
	SubcategoryID *string         `gorm:"type:varchar(255)"`
	Value         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDay        *int
	StartYear     int `gorm:"not null"`
	StartMonth    int `gorm:"not null"`
	Installments  *int
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the RecurringExpenseModel.
func (RecurringExpenseModel) TableName() string {
	return "recurring_expenses"
}

// ToEntity converts a RecurringExpenseModel to a domain RecurringExpense entity.
func (m *RecurringExpenseModel) ToEntity() *entity.RecurringExpense {
	return &entity.RecurringExpense{
		ID:            m.ID,
		FamilyID:      m.FamilyID,
		Title:         m.Title,
		CategoryKey:   valueobject.CategoryKey(m.CategoryKey),
		SubcategoryID: m.SubcategoryID,
		Value:         m.Value,
		DueDay:        m.DueDay,
		StartYear:     m.StartYear,
		StartMonth:    m.StartMonth,
		Installments:  m.Installments,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// RecurringExpenseFromEntity creates a RecurringExpenseModel from a domain RecurringExpense entity.
func RecurringExpenseFromEntity(expense *entity.RecurringExpense) *RecurringExpenseModel {
	return &RecurringExpenseModel{
		ID:            expense.ID,
		FamilyID:      expense.FamilyID,
		Title:         expense.Title,
		CategoryKey:   string(expense.CategoryKey),
		SubcategoryID: expense.SubcategoryID,
		Value:         expense.Value,
		DueDay:        expense.DueDay,
		StartYear:     expense.StartYear,
		StartMonth:    expense.StartMonth,
		Installments:  expense.Installments,
		CreatedAt:     expense.CreatedAt,
		UpdatedAt:     expense.UpdatedAt,
	}
}

// SubcategoryModel represents the subcategories table in the database.
type SubcategoryModel struct {
	ID          string    `gorm:"type:varchar(255);primaryKey"`
	FamilyID    string    `gorm:"type:varchar(255);not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	CategoryKey string    `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the SubcategoryModel.
func (SubcategoryModel) TableName() string {
	return "subcategories"
}

// ToEntity converts a SubcategoryModel to a domain Subcategory entity.
func (m *SubcategoryModel) ToEntity() *entity.Subcategory {
	return &entity.Subcategory{
		ID:          m.ID,
		FamilyID:    m.FamilyID,
		Name:        m.Name,
		CategoryKey: valueobject.CategoryKey(m.CategoryKey),
		CreatedAt:   m.CreatedAt,
	}
}

// SubcategoryFromEntity creates a SubcategoryModel from a domain Subcategory entity.
func SubcategoryFromEntity(sub *entity.Subcategory) *SubcategoryModel {
	return &SubcategoryModel{
		ID:          sub.ID,
		FamilyID:    sub.FamilyID,
		Name:        sub.Name,
		CategoryKey: string(sub.CategoryKey),
		CreatedAt:   sub.CreatedAt,
	}
}
