package models

import (
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a placed order. Contact fields are snapshotted at placement time
// so later customer profile edits do not rewrite order history.
type Order struct {
	ID              string              `gorm:"column:id;primaryKey" json:"id"`
	OwnerID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	CustomerID      *uuid.UUID          `gorm:"column:customer_id;type:uuid;index" json:"customer_id,omitempty"`
	CustomerName    string              `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerEmail   string              `gorm:"column:customer_email" json:"customer_email"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null" json:"customer_phone"`
	CustomerAddress string              `gorm:"column:customer_address" json:"customer_address"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:pending" json:"status"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null;default:cod" json:"payment_method"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;not null;default:pending" json:"payment_status"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null" json:"total"`

	// Gateway references, populated only for online payments.
	GatewayOrderID   *string `gorm:"column:gateway_order_id;index" json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string `gorm:"column:gateway_payment_id" json:"gateway_payment_id,omitempty"`
	GatewaySignature *string `gorm:"column:gateway_signature" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a line of an order. Name and price are snapshots of the
// product at placement time.
type OrderItem struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID      string          `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID    string          `gorm:"column:product_id;not null" json:"product_id"`
	ProductName  string          `gorm:"column:product_name;not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:numeric(10,2);not null" json:"product_price"`
	Quantity     int             `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
