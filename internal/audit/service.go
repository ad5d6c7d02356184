package audit

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// SystemActor is used when a change is not tied to an operator token.
const SystemActor = "system"

type LogOptions struct {
	Actor       string
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Service writes and lists audit entries.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Write stores an entry using tx when given, so it commits or rolls back with
// the change it describes.
func (s *Service) Write(tx *gorm.DB, opts LogOptions) error {
	if tx == nil {
		tx = s.db
	}
	if opts.Actor == "" {
		opts.Actor = SystemActor
	}

	entry := models.AuditLog{
		Actor:       opts.Actor,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  encode(opts.Before),
		AfterData:   encode(opts.After),
	}

	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

type Filter struct {
	EntityType string
	EntityID   string
	Action     string
	Limit      int
}

// List returns entries newest first.
func (s *Service) List(f Filter) ([]models.AuditLog, error) {
	q := s.db.Model(&models.AuditLog{})
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(f.Limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func encode(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
