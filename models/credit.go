package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses for credits
const (
	CreditPending = "pending"
	CreditPartial = "partial"
	CreditPaid    = "paid"
)

// ReceivedBy sentinel when a payment is taken by the store keeper
// rather than a worker.
const KeeperSentinel = "keeper"

type Credit struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	StoreID uuid.UUID `gorm:"type:uuid;index;not null"`

	CustomerName  string `gorm:"not null"`
	CustomerPhone string

	SaleID *uuid.UUID `gorm:"type:uuid;index"`

	TotalOwed        float64 `gorm:"type:decimal(10,2);not null"`
	TotalPaid        float64 `gorm:"type:decimal(10,2);default:0.0"`
	RemainingBalance float64 `gorm:"type:decimal(10,2);not null"`

	PaymentStatus string `gorm:"type:varchar(20);default:'pending'"` // pending, partial, paid

	// IsStoreCredit marks a zero-owed wallet created from a payment overage.
	IsStoreCredit bool `gorm:"default:false"`

	LastReminderAt *time.Time

	Payments []CreditPayment `gorm:"foreignKey:CreditID"`

	gorm.Model
}

// CreditPayment is an append-only ledger entry. Amount holds only the
// applied portion of a payment, never the overpaid excess.
type CreditPayment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	CreditID uuid.UUID `gorm:"type:uuid;index;not null"`

	Amount        float64 `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string  `gorm:"type:varchar(20);default:'cash'"`
	ReceivedBy    string  // worker id string, or "keeper"

	PaidAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	gorm.Model
}

func (c *Credit) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (p *CreditPayment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
