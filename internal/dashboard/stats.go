// Package dashboard serves the headline counters shown on the home screen.
package dashboard

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

type InventoryStats struct {
	Total    int64 `json:"total"`
	LowStock int64 `json:"lowStock"`
}

type EmployeeStats struct {
	Total   int64 `json:"total"`
	Present int64 `json:"present"`
}

type QualityStats struct {
	GoodProducts int64 `json:"goodProducts"`
	BadProducts  int64 `json:"badProducts"`
}

type MaintenanceStats struct {
	Pending int64 `json:"pending"`
	Overdue int64 `json:"overdue"`
}

type Stats struct {
	Inventory   InventoryStats   `json:"inventory"`
	Employees   EmployeeStats    `json:"employees"`
	Quality     QualityStats     `json:"quality"`
	Maintenance MaintenanceStats `json:"maintenance"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Stats counts batches, staff, inspection results and maintenance work.
// Employees.Total only counts active employees.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	now := s.now()
	today := models.StartOfDay(now)

	var st Stats
	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&st.Inventory.Total, &models.Product{}, "", nil},
		{&st.Inventory.LowStock, &models.Product{}, "quantity <= min_stock", nil},
		{&st.Employees.Total, &models.Employee{}, "status = ?", []any{models.EmployeeActive}},
		{&st.Employees.Present, &models.Attendance{}, "date >= ? AND date < ? AND status = ?",
			[]any{today, today.AddDate(0, 0, 1), models.AttendancePresent}},
		{&st.Maintenance.Pending, &models.MaintenanceItem{}, "status = ?", []any{models.MaintenancePending}},
		{&st.Maintenance.Overdue, &models.MaintenanceItem{}, "next_maintenance < ? AND status <> ?",
			[]any{now, models.MaintenanceCompleted}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, apperr.Internal("could not load dashboard stats", err)
		}
	}

	var quality struct {
		Good int64
		Bad  int64
	}
	err := db.Model(&models.QualityRecord{}).
		Select("COALESCE(SUM(good_quantity), 0) AS good, COALESCE(SUM(defective_quantity), 0) AS bad").
		Scan(&quality).Error
	if err != nil {
		return nil, apperr.Internal("could not load dashboard stats", err)
	}
	st.Quality = QualityStats{GoodProducts: quality.Good, BadProducts: quality.Bad}

	return &st, nil
}

// GET /api/dashboard/stats
func StatsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Stats(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(st)
	}
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/stats", StatsHandler(svc))
}
