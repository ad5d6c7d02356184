package models

import "gorm.io/gorm"

type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceCorrective MaintenanceType = "corrective"
	MaintenanceEmergency  MaintenanceType = "emergency"
)

type MaintenancePriority string

const (
	PriorityLow    MaintenancePriority = "low"
	PriorityMedium MaintenancePriority = "medium"
	PriorityHigh   MaintenancePriority = "high"
)

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in-progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
)

// MaintenanceItem is a piece of equipment with its service schedule.
type MaintenanceItem struct {
	Base
	EquipmentName   string              `gorm:"size:150;not null" json:"equipmentName" validate:"required"`
	Description     string              `gorm:"type:text;not null" json:"description" validate:"required"`
	MaintenanceType MaintenanceType     `gorm:"size:20;not null" json:"maintenanceType" validate:"required,oneof=preventive corrective emergency"`
	Frequency       string              `gorm:"size:20;not null" json:"frequency" validate:"required,oneof=weekly monthly quarterly annually"`
	LastMaintenance *DateTime           `json:"lastMaintenance,omitempty"`
	NextMaintenance *DateTime           `gorm:"index" json:"nextMaintenance,omitempty"`
	AssignedTo      string              `gorm:"size:100" json:"assignedTo,omitempty"`
	Priority        MaintenancePriority `gorm:"size:10;not null;default:medium" json:"priority" validate:"required,oneof=low medium high"`
	Status          MaintenanceStatus   `gorm:"size:20;not null;default:pending;index" json:"status" validate:"required,oneof=pending in-progress completed"`
	Cost            float64             `gorm:"not null;default:0" json:"cost" validate:"gte=0"`
	Notes           string              `gorm:"type:text" json:"notes,omitempty"`
}

func NewMaintenanceItem() MaintenanceItem {
	return MaintenanceItem{Priority: PriorityMedium, Status: MaintenancePending}
}

func (m *MaintenanceItem) Normalize() {
	trimAll(&m.EquipmentName, &m.Description, &m.AssignedTo, &m.Notes)
}

func (m *MaintenanceItem) BeforeSave(tx *gorm.DB) error {
	m.Normalize()
	return nil
}
