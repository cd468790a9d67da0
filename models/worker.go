package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Worker struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	StoreID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_store_pin,priority:1"`

	Name     string `gorm:"not null"`
	Pin      string `gorm:"not null;uniqueIndex:idx_store_pin,priority:2"`
	Role     string `gorm:"type:varchar(20);default:'cashier'"` // 'cashier' or 'manager'
	IsActive bool   `gorm:"default:true"`

	Sales []Sale `gorm:"foreignKey:WorkerID"`

	gorm.Model
}

func (w *Worker) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
