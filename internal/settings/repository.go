package settings

import (
	"context"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists per-store settings rows.
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

// FindByOwner loads the settings row for the owner.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	err := r.db.WithContext(ctx).First(&settings, "user_id = ?", ownerID).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// FindBySlug loads the settings row for a public storefront slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	err := r.db.WithContext(ctx).First(&settings, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save upserts the settings row keyed by owner.
func (r *Repository) Save(ctx context.Context, settings *models.StoreSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}

// SlugTaken reports whether another owner already uses the slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, excludeOwner uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StoreSettings{}).
		Where("slug = ? AND user_id <> ?", slug, excludeOwner).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
