package models

import "gorm.io/gorm"

// Product is one inventory batch. Several batches may share a ProductID; they
// are drained oldest first by dispatch.
type Product struct {
	Base
	ProductID      string   `gorm:"size:100;not null;index" json:"productId" validate:"required"`
	BatchID        string   `gorm:"size:50;not null;index" json:"batchId"`
	BatchQuantity  int      `gorm:"not null" json:"batchQuantity" validate:"gte=0"`
	BatchPrice     float64  `gorm:"not null" json:"batchPrice" validate:"gte=0"`
	BatchDiscount  float64  `gorm:"not null;default:0" json:"batchDiscount" validate:"gte=0,lte=100"`
	Name           string   `gorm:"size:150;not null" json:"name" validate:"required"`
	Brand          string   `gorm:"size:100" json:"brand,omitempty"`
	Category       string   `gorm:"size:100;not null" json:"category" validate:"required"`
	Quantity       int      `gorm:"not null" json:"quantity" validate:"gte=0"`
	MinStock       int      `gorm:"not null" json:"minStock" validate:"gte=0"`
	Price          float64  `gorm:"not null" json:"price" validate:"gte=0"`
	Currency       Currency `gorm:"size:3;not null;default:PKR" json:"currency" validate:"required,oneof=PKR USD"`
	Supplier       string   `gorm:"size:150;not null" json:"supplier" validate:"required"`
	Distributor    string   `gorm:"size:150" json:"distributor,omitempty"`
	WarehouseID    string   `gorm:"size:36;not null;index" json:"warehouseId" validate:"required"`
	Description    string   `gorm:"type:text" json:"description,omitempty"`
	Discount       float64  `gorm:"not null;default:0" json:"discount" validate:"gte=0,lte=100"`
	IsRawMaterial  bool     `gorm:"not null;default:false;index" json:"isRawMaterial"`
	DiscountReason string   `gorm:"size:255" json:"discountReason,omitempty"`
}

func NewProduct() Product {
	return Product{Currency: CurrencyPKR}
}

func (p *Product) Normalize() {
	trimAll(&p.ProductID, &p.BatchID, &p.Name, &p.Brand, &p.Category, &p.Supplier,
		&p.Distributor, &p.Description, &p.DiscountReason)
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Normalize()
	return nil
}

// IsLowStock reports whether the batch is at or below its reorder level.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}
