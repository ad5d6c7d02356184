// Package maintenance tracks equipment and its service schedule. It is
// unrelated to the global maintenance mode.
package maintenance

import (
	"context"

	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const entity = "Maintenance item"

// items without a next date come first
const byNextMaintenance = "CASE WHEN next_maintenance IS NULL THEN 0 ELSE 1 END, next_maintenance ASC"

type Service struct {
	items crud.Resource[models.MaintenanceItem]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		items: crud.Resource[models.MaintenanceItem]{DB: db, Entity: entity, Order: byNextMaintenance},
	}
}

func (s *Service) List(ctx context.Context) ([]models.MaintenanceItem, error) {
	return s.items.List(ctx)
}

func (s *Service) Create(ctx context.Context, item *models.MaintenanceItem) error {
	return s.items.Create(ctx, item)
}

func (s *Service) Update(ctx context.Context, id string, apply func(*models.MaintenanceItem) error) (*models.MaintenanceItem, error) {
	return s.items.Update(ctx, id, apply)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}
