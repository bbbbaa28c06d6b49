package dto

import "github.com/family-budget/backend/internal/domain/valueobject"

// CreateSubcategoryRequest represents the request body for subcategory creation.
type CreateSubcategoryRequest struct {
	Name        string                  `json:"name" binding:"required"`
	CategoryKey valueobject.CategoryKey `json:"category_key" binding:"required"`
}

// UpdateSubcategoryRequest represents the request body for a partial subcategory update.
type UpdateSubcategoryRequest struct {
	Name        *string                  `json:"name,omitempty"`
	CategoryKey *valueobject.CategoryKey `json:"category_key,omitempty"`
}
