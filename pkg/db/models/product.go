package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by a single store. Quantity is the live
// stock level and is only ever decremented through a guarded update.
type Product struct {
	ID          string          `gorm:"column:id;primaryKey" json:"id"`
	OwnerID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Quantity    int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Unit        string          `gorm:"column:unit" json:"unit"`
	Category    string          `gorm:"column:category" json:"category"`
	Description string          `gorm:"column:description" json:"description"`
	ImageURL    string          `gorm:"column:image_url" json:"image_url"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products" }
