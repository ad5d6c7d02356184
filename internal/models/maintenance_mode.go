package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailsSent records which lifecycle notifications went out.
type EmailsSent struct {
	StartNotification bool `gorm:"not null;default:false" json:"startNotification"`
	ReminderScheduled bool `gorm:"not null;default:false" json:"reminderScheduled"`
	EndNotification   bool `gorm:"not null;default:false" json:"endNotification"`
}

// MaintenanceMode is one maintenance window. At most one row is active; a
// partial unique index on is_active enforces it.
type MaintenanceMode struct {
	Base
	IsActive          bool       `gorm:"not null;default:false" json:"isActive"`
	StartTime         time.Time  `gorm:"not null" json:"startTime"`
	EndTime           *DateTime  `json:"endTime"`
	Reason            string     `gorm:"size:255" json:"reason,omitempty"`
	EstimatedDuration string     `gorm:"size:100" json:"estimatedDuration,omitempty"`
	CreatedBy         string     `gorm:"size:100;not null" json:"createdBy" validate:"required"`
	EmailsSent        EmailsSent `gorm:"embedded;embeddedPrefix:emails_sent_" json:"emailsSent"`
	ScheduledJobID    string     `gorm:"size:100" json:"scheduledJobId,omitempty"`

	// ReminderAt is when the end-of-maintenance reminder is due. It survives
	// restarts so pending reminders can be re-armed.
	ReminderAt     *time.Time `json:"reminderAt,omitempty"`
	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty"`
}

func (MaintenanceMode) TableName() string { return "maintenance_modes" }

func (m *MaintenanceMode) Normalize() {
	trimAll(&m.Reason, &m.EstimatedDuration, &m.CreatedBy)
}

func (m *MaintenanceMode) BeforeSave(tx *gorm.DB) error {
	m.Normalize()
	return nil
}

// Summary is the shape the maintenance gate returns to blocked clients.
func (m MaintenanceMode) Summary() map[string]any {
	return map[string]any{
		"isActive":          m.IsActive,
		"startTime":         m.StartTime,
		"endTime":           m.EndTime,
		"reason":            m.Reason,
		"estimatedDuration": m.EstimatedDuration,
	}
}
