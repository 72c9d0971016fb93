package orders

import (
	"context"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/asachdeva-dev/shopfront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists order headers and their line items.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateWithItems inserts the order header and its line items in one call.
func (r *Repository) CreateWithItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with line items, without tenant scoping.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForOwner loads an owner's order with line items.
func (r *Repository) FindByIDForOwner(ctx context.Context, ownerID uuid.UUID, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByOwner returns a page of the owner's orders, newest first. A zero
// limit returns everything.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", ownerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByCustomer returns a customer's order history, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the fulfilment status on an owner's order.
func (r *Repository) UpdateStatus(ctx context.Context, ownerID uuid.UUID, id string, status enums.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PaymentUpdate carries the payment fields rewritten on verification.
type PaymentUpdate struct {
	PaymentStatus    enums.PaymentStatus
	GatewayPaymentID *string
	GatewaySignature *string
}

// UpdatePaymentStatus rewrites the payment fields and returns the fresh row.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id string, update PaymentUpdate) (*models.Order, error) {
	values := map[string]any{
		"payment_status": update.PaymentStatus,
	}
	if update.GatewayPaymentID != nil {
		values["gateway_payment_id"] = *update.GatewayPaymentID
	}
	if update.GatewaySignature != nil {
		values["gateway_signature"] = *update.GatewaySignature
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}
