package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/asachdeva-dev/shopfront-backend/internal/orders"
	"github.com/asachdeva-dev/shopfront-backend/pkg/enums"
	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
	"github.com/asachdeva-dev/shopfront-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const intentCurrency = "INR"

// Service exposes the online-payment flow: intent creation before checkout
// and signature verification after the customer pays.
type Service interface {
	CreateIntent(ctx context.Context, ownerID uuid.UUID, amount decimal.Decimal) (*IntentDTO, error)
	VerifyPayment(ctx context.Context, input VerifyInput) (*orders.OrderDTO, error)
}

// IntentDTO is returned to the client before it opens the gateway widget.
// Only the public key id is exposed, never the secret.
type IntentDTO struct {
	GatewayOrderID string `json:"gateway_order_id"`
	AmountMinor    int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"key_id"`
}

// VerifyInput is the client's claim that a payment succeeded. The claim is
// never trusted; the signature is recomputed server-side.
type VerifyInput struct {
	OrderID          string
	GatewayPaymentID string
	GatewaySignature string
}

// credentialsSource is the slice of the settings service the payment flow needs.
type credentialsSource interface {
	GatewayCredentials(ctx context.Context, ownerID uuid.UUID) (keyID, keySecret string, err error)
}

// orderLedger is the slice of the order service the payment flow needs.
type orderLedger interface {
	GetOrderByID(ctx context.Context, orderID string) (*orders.OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, update orders.PaymentUpdate) (*orders.OrderDTO, error)
}

type service struct {
	gateway     IntentGateway
	credentials credentialsSource
	ledger      orderLedger
	logg        *logger.Logger
	checkout    *metrics.CheckoutMetrics
}

// NewService constructs a payment service instance.
func NewService(gateway IntentGateway, credentials credentialsSource, ledger orderLedger, logg *logger.Logger, checkout *metrics.CheckoutMetrics) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("intent gateway required")
	}
	if credentials == nil {
		return nil, fmt.Errorf("credentials source required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("order ledger required")
	}
	return &service{
		gateway:     gateway,
		credentials: credentials,
		ledger:      ledger,
		logg:        logg,
		checkout:    checkout,
	}, nil
}

// CreateIntent creates a remote gateway order for the computed cart total.
// The intent precedes the order insert, so a failed checkout can orphan an
// intent; that cost is accepted.
func (s *service) CreateIntent(ctx context.Context, ownerID uuid.UUID, amount decimal.Decimal) (*IntentDTO, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	keyID, keySecret, err := s.credentials.GatewayCredentials(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	amountMinor := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	intent, err := s.gateway.CreateIntent(ctx, keyID, keySecret, amountMinor, intentCurrency, receipt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway rejected intent")
	}

	return &IntentDTO{
		GatewayOrderID: intent.GatewayOrderID,
		AmountMinor:    intent.AmountMinor,
		Currency:       intent.Currency,
		KeyID:          keyID,
	}, nil
}

// VerifyPayment recomputes the HMAC signature with the store's decrypted
// secret and flips the order to paid only on a match. A mismatch leaves the
// order unpaid and uncancelled for manual reconciliation. Re-verifying an
// already-paid order rewrites the same fields, so the call is idempotent at
// the order-row level.
func (s *service) VerifyPayment(ctx context.Context, input VerifyInput) (*orders.OrderDTO, error) {
	if input.OrderID == "" || input.GatewayPaymentID == "" || input.GatewaySignature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id, payment id, and signature are required")
	}

	order, err := s.ledger.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentMethod != enums.PaymentMethodOnline {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order was not placed with online payment")
	}
	if order.GatewayOrderID == nil || *order.GatewayOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "order has no gateway reference to verify against")
	}

	_, keySecret, err := s.credentials.GatewayCredentials(ctx, order.OwnerID)
	if err != nil {
		return nil, err
	}

	if !signatureMatches(*order.GatewayOrderID, input.GatewayPaymentID, keySecret, input.GatewaySignature) {
		s.checkout.IncVerification("rejected")
		if s.logg != nil {
			ctx = s.logg.WithOrderID(ctx, order.ID)
			s.logg.Warn(ctx, "payment signature rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidSignature, "payment signature verification failed")
	}

	updated, err := s.ledger.UpdatePaymentStatus(ctx, order.ID, orders.PaymentUpdate{
		PaymentStatus:    enums.PaymentStatusPaid,
		GatewayPaymentID: &input.GatewayPaymentID,
		GatewaySignature: &input.GatewaySignature,
	})
	if err != nil {
		return nil, err
	}

	s.checkout.IncVerification("verified")
	if s.logg != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID)
		s.logg.Info(ctx, "payment verified")
	}
	return updated, nil
}
