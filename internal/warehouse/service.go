package warehouse

import (
	"context"

	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const entity = "Warehouse"

type Service struct {
	warehouses crud.Resource[models.Warehouse]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		warehouses: crud.Resource[models.Warehouse]{DB: db, Entity: entity, Order: "created_at DESC"},
	}
}

func (s *Service) List(ctx context.Context) ([]models.Warehouse, error) {
	return s.warehouses.List(ctx)
}

func (s *Service) Create(ctx context.Context, w *models.Warehouse) error {
	return s.warehouses.Create(ctx, w)
}

func (s *Service) Update(ctx context.Context, id string, apply func(*models.Warehouse) error) (*models.Warehouse, error) {
	return s.warehouses.Update(ctx, id, apply)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.warehouses.Delete(ctx, id)
}
