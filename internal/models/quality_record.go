package models

import "gorm.io/gorm"

// QualityRecord is an inspection result. Good and defective counts are not
// required to add up to the total.
type QualityRecord struct {
	Base
	ProductID         string   `gorm:"size:100;not null;index" json:"productId" validate:"required"`
	ProductName       string   `gorm:"size:150;not null" json:"productName" validate:"required"`
	BatchNumber       string   `gorm:"size:100;not null" json:"batchNumber" validate:"required"`
	TotalQuantity     int      `gorm:"not null" json:"totalQuantity" validate:"gte=0"`
	GoodQuantity      int      `gorm:"not null" json:"goodQuantity" validate:"gte=0"`
	DefectiveQuantity int      `gorm:"not null" json:"defectiveQuantity" validate:"gte=0"`
	DefectType        string   `gorm:"size:100" json:"defectType,omitempty"`
	InspectionDate    DateTime `gorm:"not null;index" json:"inspectionDate" validate:"required"`
	Inspector         string   `gorm:"size:100;not null" json:"inspector" validate:"required"`
	Notes             string   `gorm:"type:text" json:"notes,omitempty"`
}

func (q *QualityRecord) Normalize() {
	trimAll(&q.ProductID, &q.ProductName, &q.BatchNumber, &q.DefectType, &q.Inspector, &q.Notes)
}

func (q *QualityRecord) BeforeSave(tx *gorm.DB) error {
	q.Normalize()
	return nil
}
