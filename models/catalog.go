package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogItem is a reference product template used to pre-populate a new
// store's inventory during onboarding. Not tenant-scoped.
type CatalogItem struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	Name      string `gorm:"not null"`
	Category  string `gorm:"default:'General'"`
	StoreType string `gorm:"type:varchar(40);index;not null"`

	SuggestedCostPrice    float64 `gorm:"type:decimal(10,2);default:0.0"`
	SuggestedSellingPrice float64 `gorm:"type:decimal(10,2);default:0.0"`
	DefaultQuantity       int     `gorm:"default:0"`

	UnitsPerBulk     int     `gorm:"default:0"`
	BulkSellingPrice float64 `gorm:"type:decimal(10,2);default:0.0"`

	IsPopular bool `gorm:"default:false"`

	gorm.Model
}

// StoreTypeDef is the onboarding picklist of recognised store types.
type StoreTypeDef struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Key         string    `gorm:"type:varchar(40);uniqueIndex;not null"`
	Label       string    `gorm:"not null"`
	Description string

	gorm.Model
}

func (c *CatalogItem) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (s *StoreTypeDef) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
