package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pores-backend/utils"
)

type Store struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null"` // keeper password, bcrypt hashed
	Name     string    `gorm:"not null"`
	Phone    string
	Address  string

	StoreType      string `gorm:"type:varchar(40)"`
	Currency       string `gorm:"type:varchar(8);default:'KES'"`
	SetupCompleted bool   `gorm:"default:false"`

	CreditReminders  bool `gorm:"default:true"`
	SMSNotifications bool `gorm:"default:false"`

	Workers  []Worker  `gorm:"foreignKey:StoreID"`
	Products []Product `gorm:"foreignKey:StoreID"`
	Sales    []Sale    `gorm:"foreignKey:StoreID"`
	Credits  []Credit  `gorm:"foreignKey:StoreID"`

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

// Initialize UUID and hash keeper password before creating
func (s *Store) BeforeCreate(tx *gorm.DB) (err error) {
	s.ID = uuid.New()
	hashed, err := utils.HashPassword(s.Password)
	if err != nil {
		return err
	}
	s.Password = hashed
	return
}
