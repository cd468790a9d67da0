package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses for sales
const (
	SaleCompleted = "completed"
	SalePartial   = "partial"
	SalePending   = "pending"
)

type Sale struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	StoreID uuid.UUID `gorm:"type:uuid;index;not null"`

	ReceiptNumber string `gorm:"uniqueIndex;not null"`

	WorkerID   uuid.UUID `gorm:"type:uuid;index"`
	WorkerName string    // snapshot at time of sale

	SaleDate time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	TotalPrice       float64 `gorm:"type:decimal(10,2);not null"`
	TotalCost        float64 `gorm:"type:decimal(10,2);not null"`
	AmountPaid       float64 `gorm:"type:decimal(10,2);default:0.0"`
	RemainingBalance float64 `gorm:"type:decimal(10,2);default:0.0"`

	PaymentStatus string `gorm:"type:varchar(20);not null"` // completed, partial, pending
	PaymentMethod string `gorm:"type:varchar(20);default:'cash'"`

	CustomerName  string
	CustomerPhone string

	// ClientRef echoes the merchant-side id of an offline-recorded sale.
	ClientRef string `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:SaleID"`

	gorm.Model
}

type SaleItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	SaleID uuid.UUID `gorm:"type:uuid;index;not null"`

	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductName string    `gorm:"not null"`

	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"type:decimal(10,2);not null"` // snapshot, decoupled from live Product price
	CostPrice  float64 `gorm:"type:decimal(10,2);not null"`
	SellByBulk bool    `gorm:"default:false"`
	Subtotal   float64 `gorm:"type:decimal(10,2);not null"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func (i *SaleItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
