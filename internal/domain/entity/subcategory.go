package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/family-budget/backend/internal/domain/valueobject"
)

// Subcategory is a family-defined refinement of a budget category.
type Subcategory struct {
	ID          string                  `json:"id"`
	FamilyID    string                  `json:"family_id" validate:"required"`
	Name        string                  `json:"name" validate:"required,max=100"`
	CategoryKey valueobject.CategoryKey `json:"category_key" validate:"required"`
	CreatedAt   time.Time               `json:"created_at"`
}

// NewSubcategory creates a new Subcategory entity.
func NewSubcategory(familyID, name string, categoryKey valueobject.CategoryKey, local bool) *Subcategory {
	id := uuid.NewString()
	if local {
		id = valueobject.NewLocalID(valueobject.LocalIDPrefixSubcategory)
	}

	return &Subcategory{
		ID:          id,
		FamilyID:    familyID,
		Name:        name,
		CategoryKey: categoryKey,
		CreatedAt:   time.Now().UTC(),
	}
}

// RecordID implements Record.
func (s *Subcategory) RecordID() string { return s.ID }

// SyncEntity implements Record.
func (s *Subcategory) SyncEntity() SyncEntity { return SyncEntitySubcategory }
