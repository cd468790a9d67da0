package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	StoreID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name     string `gorm:"not null"`
	Category string `gorm:"default:'General'"`
	Barcode  string

	// Quantity is tracked in the smallest sellable unit.
	Quantity     int     `gorm:"default:0"`
	CostPrice    float64 `gorm:"type:decimal(10,2);not null"`
	SellingPrice float64 `gorm:"type:decimal(10,2);not null"`

	// Optional bulk pricing: a bulk row of UnitsPerBulk units sold at BulkSellingPrice.
	UnitsPerBulk     int     `gorm:"default:0"`
	BulkSellingPrice float64 `gorm:"type:decimal(10,2);default:0.0"`

	LowStockAlert int  `gorm:"default:5"`
	IsActive      bool `gorm:"default:true"`

	SaleItems []SaleItem `gorm:"foreignKey:ProductID"`

	gorm.Model
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
