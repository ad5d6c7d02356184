// Package crud holds the storage and request plumbing the simple resource
// modules share: list, create, merge-update and delete of one entity type.
package crud

import (
	"context"

	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/validation"
)

// Scope narrows a list query.
type Scope = func(*gorm.DB) *gorm.DB

// Resource is a table of T with a default sort order. Entity is the display
// name used in error messages ("Product" -> "Product not found").
type Resource[T any] struct {
	DB     *gorm.DB
	Entity string
	Order  string
}

func (r Resource[T]) List(ctx context.Context, scopes ...Scope) ([]T, error) {
	var items []T
	q := r.DB.WithContext(ctx).Scopes(scopes...)
	if r.Order != "" {
		q = q.Order(r.Order)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, apperr.FromDB(err, r.Entity, "list")
	}
	return items, nil
}

func (r Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err, r.Entity, "load")
	}
	return &item, nil
}

// Create validates and inserts item.
func (r Resource[T]) Create(ctx context.Context, item *T) error {
	models.Normalize(item)
	if err := validation.Struct(item); err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return apperr.FromDB(err, r.Entity, "create")
	}
	return nil
}

// Update loads the row, lets apply change it, re-validates and saves the
// whole row.
func (r Resource[T]) Update(ctx context.Context, id string, apply func(*T) error) (*T, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(item); err != nil {
		return nil, err
	}
	models.Normalize(item)
	if err := validation.Struct(item); err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Save(item).Error; err != nil {
		return nil, apperr.FromDB(err, r.Entity, "update")
	}
	return item, nil
}

// Delete removes the row; a missing id is NotFound.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	var item T
	res := r.DB.WithContext(ctx).Delete(&item, "id = ?", id)
	if res.Error != nil {
		return apperr.FromDB(res.Error, r.Entity, "delete")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.Entity)
	}
	return nil
}
