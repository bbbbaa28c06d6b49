// Package remote implements the relational backend gateway on gorm.
package remote

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/family-budget/backend/internal/application/adapter"
	"github.com/family-budget/backend/internal/domain/validation"
	"github.com/family-budget/backend/internal/integration/remote/model"
)

// gateway implements the adapter.RemoteStore interface.
type gateway struct {
	db *gorm.DB
}

// NewGateway creates a new remote gateway instance.
func NewGateway(db *gorm.DB) adapter.RemoteStore {
	return &gateway{
		db: db,
	}
}

// Migrate creates the remote tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(model.All()...)
}

// findOne loads the first row matching the query into dest and reports whether one existed.
func (g *gateway) findOne(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	result := g.db.WithContext(ctx).Where(query, args...).First(dest)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, result.Error
	}
	return true, nil
}

// create validates the payload and inserts the row.
func (g *gateway) create(ctx context.Context, payload any, row any) error {
	if err := validation.Struct(payload); err != nil {
		return err
	}
	return g.db.WithContext(ctx).Create(row).Error
}

// save validates the payload and writes every column of the row.
func (g *gateway) save(ctx context.Context, payload any, row any) error {
	if err := validation.Struct(payload); err != nil {
		return err
	}
	return g.db.WithContext(ctx).Save(row).Error
}
