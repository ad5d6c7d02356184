package models

import (
	"strings"

	"gorm.io/gorm"
)

type WarehouseType string

const (
	WarehouseStorage       WarehouseType = "storage"
	WarehouseDistribution  WarehouseType = "distribution"
	WarehouseManufacturing WarehouseType = "manufacturing"
)

type WarehouseStatus string

const (
	WarehouseActive      WarehouseStatus = "active"
	WarehouseInactive    WarehouseStatus = "inactive"
	WarehouseMaintenance WarehouseStatus = "maintenance"
)

type Warehouse struct {
	Base
	Name           string          `gorm:"size:150;not null" json:"name" validate:"required"`
	Location       string          `gorm:"size:255;not null" json:"location" validate:"required"`
	Capacity       int             `gorm:"not null" json:"capacity" validate:"gte=0"`
	CurrentStock   int             `gorm:"not null" json:"currentStock" validate:"gte=0"`
	DefectiveItems int             `gorm:"not null;default:0" json:"defectiveItems" validate:"gte=0"`
	Manager        string          `gorm:"size:100;not null" json:"manager" validate:"required"`
	Phone          string          `gorm:"size:30" json:"phone,omitempty"`
	Email          string          `gorm:"size:255" json:"email,omitempty" validate:"omitempty,email"`
	Type           WarehouseType   `gorm:"size:20;not null" json:"type" validate:"required,oneof=storage distribution manufacturing"`
	Status         WarehouseStatus `gorm:"size:20;not null;default:active" json:"status" validate:"required,oneof=active inactive maintenance"`
}

func NewWarehouse() Warehouse {
	return Warehouse{Status: WarehouseActive}
}

func (w *Warehouse) Normalize() {
	trimAll(&w.Name, &w.Location, &w.Manager, &w.Phone, &w.Email)
	w.Email = strings.ToLower(w.Email)
}

func (w *Warehouse) BeforeSave(tx *gorm.DB) error {
	w.Normalize()
	return nil
}
