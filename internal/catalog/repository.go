package catalog

import (
	"context"
	"errors"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock signals a guarded decrement that found less stock than
// requested. Callers translate it into their own error vocabulary.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository wires together catalog persistence helpers. All lookups are
// scoped by owner so one store can never touch another store's rows.
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

// Create inserts a new product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update persists the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes an owner's product. Missing rows surface as
// gorm.ErrRecordNotFound.
func (r *Repository) Delete(ctx context.Context, ownerID uuid.UUID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID loads an owner's product.
func (r *Repository) FindByID(ctx context.Context, ownerID uuid.UUID, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		First(&product, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindAnyByID loads a product without owner scoping. Order placement uses it
// to resolve the selling store from the first line item.
func (r *Repository) FindAnyByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByOwner returns the owner's catalog, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock atomically reduces stock, refusing to go below zero. The
// quantity predicate makes concurrent decrements race-safe without a
// SELECT FOR UPDATE.
func (r *Repository) DecrementStock(ctx context.Context, ownerID uuid.UUID, id string, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND user_id = ? AND quantity >= ?", id, ownerID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, ownerID, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// BulkUpsert inserts products, replacing rows whose id already exists.
func (r *Repository) BulkUpsert(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "price", "quantity", "unit", "category", "description", "image_url", "updated_at",
			}),
		}).
		Create(&products).Error
}
