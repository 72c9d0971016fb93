package orders

import (
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/asachdeva-dev/shopfront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID               string              `json:"id"`
	OwnerID          uuid.UUID           `json:"user_id"`
	CustomerID       *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName     string              `json:"customer_name"`
	CustomerEmail    string              `json:"customer_email,omitempty"`
	CustomerPhone    string              `json:"customer_phone"`
	CustomerAddress  string              `json:"customer_address,omitempty"`
	Status           enums.OrderStatus   `json:"status"`
	PaymentMethod    enums.PaymentMethod `json:"payment_method"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	Total            decimal.Decimal     `json:"total"`
	GatewayOrderID   *string             `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string             `json:"gateway_payment_id,omitempty"`
	Items            []OrderItemDTO      `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
}

// OrderItemDTO is one snapshotted line of an order.
type OrderItemDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
}

func toOrderDTO(o *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
	}
	return &OrderDTO{
		ID:               o.ID,
		OwnerID:          o.OwnerID,
		CustomerID:       o.CustomerID,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerPhone:    o.CustomerPhone,
		CustomerAddress:  o.CustomerAddress,
		Status:           o.Status,
		PaymentMethod:    o.PaymentMethod,
		PaymentStatus:    o.PaymentStatus,
		Total:            o.Total,
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID,
		Items:            items,
		CreatedAt:        o.CreatedAt,
	}
}

func toOrderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toOrderDTO(&rows[i]))
	}
	return out
}
