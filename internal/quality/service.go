package quality

import (
	"context"

	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

const entity = "Quality record"

// Service stores inspection results. Good and defective counts are accepted
// as given; they need not sum to the total.
type Service struct {
	records crud.Resource[models.QualityRecord]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		records: crud.Resource[models.QualityRecord]{DB: db, Entity: entity, Order: "inspection_date DESC"},
	}
}

func (s *Service) List(ctx context.Context) ([]models.QualityRecord, error) {
	return s.records.List(ctx)
}

func (s *Service) Create(ctx context.Context, r *models.QualityRecord) error {
	return s.records.Create(ctx, r)
}

func (s *Service) Update(ctx context.Context, id string, apply func(*models.QualityRecord) error) (*models.QualityRecord, error) {
	return s.records.Update(ctx, id, apply)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}
