package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/asachdeva-dev/shopfront-backend/api/responses"
	"github.com/asachdeva-dev/shopfront-backend/api/validators"
	"github.com/asachdeva-dev/shopfront-backend/internal/payments"
	"github.com/asachdeva-dev/shopfront-backend/internal/settings"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
)

type createIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type verifyPaymentRequest struct {
	OrderID          string `json:"order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	GatewaySignature string `json:"gateway_signature" validate:"required"`
}

// PaymentCreateIntent creates a gateway order for the amount the customer is
// about to pay to the slugged store.
func PaymentCreateIntent(svc payments.Service, settingsSvc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "storeSlug")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStoreSlug(ctx, slug)
		}

		var payload createIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ownerID, err := settingsSvc.ResolveOwnerBySlug(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		intent, err := svc.CreateIntent(ctx, ownerID, payload.Amount)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, intent)
	}
}

// PaymentVerify reconciles a gateway payment confirmation against the order.
func PaymentVerify(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, payload.OrderID)
		}

		order, err := svc.VerifyPayment(ctx, payments.VerifyInput{
			OrderID:          payload.OrderID,
			GatewayPaymentID: payload.GatewayPaymentID,
			GatewaySignature: payload.GatewaySignature,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
