package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionDelete     AuditAction = "delete"
	AuditActionDispatch   AuditAction = "dispatch"
	AuditActionPayment    AuditAction = "payment"
	AuditActionPayroll    AuditAction = "payroll"
	AuditActionActivate   AuditAction = "activate"
	AuditActionDeactivate AuditAction = "deactivate"
)

type AuditLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	// Who did it: the operator name from the token, or "system".
	Actor string `gorm:"size:100" json:"actor"`

	// Which entity ("transaction", "product", "maintenance_mode", ...)
	EntityType string `gorm:"size:50;index" json:"entityType"`
	EntityID   string `gorm:"size:36;index" json:"entityId"`

	Action AuditAction `gorm:"size:20" json:"action"`

	Description string `gorm:"size:255" json:"description"`

	// State before and after, as JSON.
	BeforeData string `gorm:"type:text" json:"beforeData,omitempty"`
	AfterData  string `gorm:"type:text" json:"afterData,omitempty"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
