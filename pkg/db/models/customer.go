package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a storefront shopper account. Customers are global, not scoped
// to a single store.
type Customer struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Phone        string    `gorm:"column:phone" json:"phone"`
	Address      string    `gorm:"column:address" json:"address"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
