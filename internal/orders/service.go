package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/internal/catalog"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/asachdeva-dev/shopfront-backend/pkg/enums"
	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
	"github.com/asachdeva-dev/shopfront-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes order placement and management operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, ownerID uuid.UUID, orderID string) (*OrderDTO, error)
	GetOrderByID(ctx context.Context, orderID string) (*OrderDTO, error)
	ListOrders(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]OrderDTO, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, ownerID uuid.UUID, orderID string, status enums.OrderStatus) (*OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, update PaymentUpdate) (*OrderDTO, error)
}

// LineItemInput is one product-quantity pair from the cart.
type LineItemInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput holds the validated checkout payload. TenantID is optional;
// when absent the selling store is resolved from the first cart item.
type PlaceOrderInput struct {
	TenantID        *uuid.UUID
	CustomerID      *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	PaymentMethod   enums.PaymentMethod
	GatewayOrderID  *string
	Items           []LineItemInput
}

// storeGate is the slice of the settings service the order core needs.
type storeGate interface {
	StoreOpen(ctx context.Context, ownerID uuid.UUID, now time.Time) (bool, error)
	MinimumOrderValue(ctx context.Context, ownerID uuid.UUID) (*decimal.Decimal, error)
}

// service implements the order service.
type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	dbClient    *db.Client
	gate        storeGate
	logg        *logger.Logger
	checkout    *metrics.CheckoutMetrics
	now         func() time.Time
}

// NewService constructs an order service instance.
func NewService(repo *Repository, catalogRepo *catalog.Repository, dbClient *db.Client, gate storeGate, logg *logger.Logger, checkout *metrics.CheckoutMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if gate == nil {
		return nil, fmt.Errorf("store gate required")
	}
	return &service{
		repo:        repo,
		catalogRepo: catalogRepo,
		dbClient:    dbClient,
		gate:        gate,
		logg:        logg,
		checkout:    checkout,
		now:         time.Now,
	}, nil
}

// PlaceOrder runs the all-or-nothing checkout transaction: resolve the
// selling store, gate on availability, validate and decrement stock per
// line, and insert the order with price/name snapshots. Any failure rolls
// everything back; no stock moves without an order row and vice versa.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if err := validatePlaceOrder(&input); err != nil {
		s.checkout.IncRejected("validation")
		return nil, err
	}

	ownerID, err := s.resolveTenant(ctx, input)
	if err != nil {
		s.checkout.IncRejected("unknown_store")
		return nil, err
	}

	now := s.now()

	open, err := s.gate.StoreOpen(ctx, ownerID, now)
	if err != nil {
		return nil, err
	}
	if !open {
		s.checkout.IncRejected("store_closed")
		return nil, pkgerrors.New(pkgerrors.CodeStoreClosed, "store is not accepting orders right now")
	}

	minOrder, err := s.gate.MinimumOrderValue(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// ID generation is a bounded scan outside the transaction; collisions
	// surface as a unique violation on insert.
	orderID := s.repo.NextOrderID(ctx, now)

	paymentStatus := enums.PaymentStatusPending
	if input.PaymentMethod == enums.PaymentMethodCOD {
		paymentStatus = enums.PaymentStatusPaid
	}

	order := &models.Order{
		ID:              orderID,
		OwnerID:         ownerID,
		CustomerID:      input.CustomerID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   strings.TrimSpace(input.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerAddress: strings.TrimSpace(input.CustomerAddress),
		Status:          enums.OrderStatusPending,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   paymentStatus,
		GatewayOrderID:  input.GatewayOrderID,
	}

	start := time.Now()
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.catalogRepo.WithTx(tx)

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))

		for _, line := range input.Items {
			product, err := products.FindByID(ctx, ownerID, line.ProductID)
			if err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("product %s not found for this store", line.ProductID))
				}
				return err
			}

			// Advisory read for the error message; the guarded update below
			// is the actual race-safe check.
			if product.Quantity < line.Quantity {
				s.checkout.IncRejected("insufficient_stock")
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s", product.Name)).
					WithDetails(map[string]any{
						"product_id": product.ID,
						"available":  product.Quantity,
						"requested":  line.Quantity,
					})
			}

			if err := products.DecrementStock(ctx, ownerID, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, catalog.ErrInsufficientStock) {
					s.checkout.IncRejected("insufficient_stock")
					return pkgerrors.New(pkgerrors.CodeInsufficientStock,
						fmt.Sprintf("insufficient stock for %s", product.Name))
				}
				return err
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			items = append(items, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductPrice: product.Price,
				Quantity:     line.Quantity,
			})
		}

		if minOrder != nil && total.LessThan(*minOrder) {
			s.checkout.IncRejected("below_minimum")
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("order total %s is below the store minimum of %s", total.StringFixed(2), minOrder.StringFixed(2)))
		}

		order.Total = total
		order.Items = items
		return s.repo.WithTx(tx).CreateWithItems(ctx, order)
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order id collision, please retry")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	committed, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading committed order")
	}

	s.checkout.IncPlaced(order.PaymentMethod.String())
	s.checkout.ObservePlacement(order.PaymentMethod.String(), time.Since(start))
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID)
		s.logg.Info(ctx, "order placed")
	}

	return toOrderDTO(committed), nil
}

func (s *service) resolveTenant(ctx context.Context, input PlaceOrderInput) (uuid.UUID, error) {
	if input.TenantID != nil {
		return *input.TenantID, nil
	}
	product, err := s.catalogRepo.FindAnyByID(ctx, input.Items[0].ProductID)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving store")
	}
	return product.OwnerID, nil
}

func (s *service) GetOrder(ctx context.Context, ownerID uuid.UUID, orderID string) (*OrderDTO, error) {
	order, err := s.repo.FindByIDForOwner(ctx, ownerID, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return toOrderDTO(order), nil
}

func (s *service) GetOrderByID(ctx context.Context, orderID string) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return toOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]OrderDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toOrderDTOs(rows), nil
}

func (s *service) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customer orders")
	}
	return toOrderDTOs(rows), nil
}

func (s *service) UpdateStatus(ctx context.Context, ownerID uuid.UUID, orderID string, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	current, err := s.repo.FindByIDForOwner(ctx, ownerID, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	// Completed and cancelled are terminal.
	if current.Status != enums.OrderStatusPending && current.Status != status {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("order is already %s", current.Status))
	}

	if err := s.repo.UpdateStatus(ctx, ownerID, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return s.GetOrder(ctx, ownerID, orderID)
}

func (s *service) UpdatePaymentStatus(ctx context.Context, orderID string, update PaymentUpdate) (*OrderDTO, error) {
	if !update.PaymentStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	order, err := s.repo.UpdatePaymentStatus(ctx, orderID, update)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment status")
	}
	return toOrderDTO(order), nil
}

func validatePlaceOrder(input *PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range input.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item product id is required")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = enums.PaymentMethodCOD
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}
