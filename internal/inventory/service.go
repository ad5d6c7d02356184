package inventory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const entity = "Product"

// Service manages inventory batches.
type Service struct {
	products crud.Resource[models.Product]
	now      func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		products: crud.Resource[models.Product]{DB: db, Entity: entity, Order: "created_at DESC"},
		now:      time.Now,
	}
}

// NewBatchID returns a time-seeded batch id. It is not guaranteed unique.
func NewBatchID(now time.Time) string {
	return fmt.Sprintf("BATCH-%d-%d", now.UnixMilli(), rand.IntN(1000))
}

// List returns batches newest first. kind "raw" or "finished" filters on the
// raw-material flag; anything else lists all.
func (s *Service) List(ctx context.Context, kind string) ([]models.Product, error) {
	var scopes []crud.Scope
	switch kind {
	case "raw":
		scopes = append(scopes, rawMaterial(true))
	case "finished":
		scopes = append(scopes, rawMaterial(false))
	}
	return s.products.List(ctx, scopes...)
}

func rawMaterial(raw bool) crud.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_raw_material = ?", raw)
	}
}

// Create stores a new batch under a freshly generated batch id.
func (s *Service) Create(ctx context.Context, p *models.Product) error {
	p.BatchID = NewBatchID(s.now())
	if p.Currency == "" {
		p.Currency = models.CurrencyPKR
	}
	return s.products.Create(ctx, p)
}

// Update applies a change to a batch; the batch id never changes.
func (s *Service) Update(ctx context.Context, id string, apply func(*models.Product) error) (*models.Product, error) {
	return s.products.Update(ctx, id, func(p *models.Product) error {
		batchID := p.BatchID
		if err := apply(p); err != nil {
			return err
		}
		p.BatchID = batchID
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
