package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes owner-facing catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, ownerID uuid.UUID, productID string, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, ownerID uuid.UUID, productID string) error
	GetProduct(ctx context.Context, ownerID uuid.UUID, productID string) (*ProductDTO, error)
	ListProducts(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error)
	ImportCSV(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*ImportResult, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Unit        string
	Category    string
	Description string
	ImageURL    string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Price       *decimal.Decimal
	Quantity    *int
	Unit        *string
	Category    *string
	Description *string
	ImageURL    *string
}

// service implements the catalog service.
type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func newProductID() string {
	return "prod_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func (s *service) CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Name, input.Price, input.Quantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          newProductID(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Category:    input.Category,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return toProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, ownerID uuid.UUID, productID string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, ownerID, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := validateProductFields(product.Name, product.Price, product.Quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return toProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, ownerID uuid.UUID, productID string) error {
	if err := s.repo.Delete(ctx, ownerID, productID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, ownerID uuid.UUID, productID string) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, ownerID, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return toProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return toProductDTOs(products), nil
}

func (s *service) ImportCSV(ctx context.Context, ownerID uuid.UUID, r io.Reader) (*ImportResult, error) {
	rows, parseErrs, err := parseCatalogCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && len(parseErrs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv contains no data rows")
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, models.Product{
			ID:          newProductID(),
			OwnerID:     ownerID,
			Name:        row.Name,
			Price:       row.Price,
			Quantity:    row.Quantity,
			Unit:        row.Unit,
			Category:    row.Category,
			Description: row.Description,
			ImageURL:    row.ImageURL,
		})
	}

	if len(products) > 0 {
		err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).BulkUpsert(ctx, products)
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "importing products")
		}
	}

	return &ImportResult{
		Imported: len(products),
		Skipped:  len(parseErrs),
		Errors:   parseErrs,
	}, nil
}

func validateProductFields(name string, price decimal.Decimal, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product quantity cannot be negative")
	}
	return nil
}
