package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asachdeva-dev/shopfront-backend/api/middleware"
	"github.com/asachdeva-dev/shopfront-backend/api/responses"
	"github.com/asachdeva-dev/shopfront-backend/api/validators"
	"github.com/asachdeva-dev/shopfront-backend/internal/orders"
	"github.com/asachdeva-dev/shopfront-backend/internal/settings"
	"github.com/asachdeva-dev/shopfront-backend/pkg/enums"
	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
)

type placeOrderRequest struct {
	StoreSlug      string                 `json:"store_slug,omitempty"`
	Items          []placeOrderItem       `json:"items" validate:"required,min=1,dive"`
	Customer       placeOrderCustomerInfo `json:"customer" validate:"required"`
	PaymentMethod  string                 `json:"payment_method,omitempty" validate:"omitempty,oneof=cod online"`
	GatewayOrderID *string                `json:"gateway_order_id,omitempty"`
}

type placeOrderItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type placeOrderCustomerInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address,omitempty"`
}

const (
	defaultOrderPageSize = 50
	maxOrderPageSize     = 200
)

type orderStatusRequest struct {
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
	PaymentStatus string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed"`
}

// OrderPlace is the public checkout endpoint. Anonymous requests create guest
// orders; a valid customer token links the order to that account.
func OrderPlace(svc orders.Service, settingsSvc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.PlaceOrderInput{
			CustomerName:    payload.Customer.Name,
			CustomerEmail:   payload.Customer.Email,
			CustomerPhone:   payload.Customer.Phone,
			CustomerAddress: payload.Customer.Address,
			GatewayOrderID:  payload.GatewayOrderID,
		}
		if payload.PaymentMethod != "" {
			method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			input.PaymentMethod = method
		}
		for _, item := range payload.Items {
			input.Items = append(input.Items, orders.LineItemInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		ctx := r.Context()
		if slug := strings.TrimSpace(payload.StoreSlug); slug != "" {
			if logg != nil {
				ctx = logg.WithStoreSlug(ctx, slug)
			}
			ownerID, err := settingsSvc.ResolveOwnerBySlug(ctx, slug)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.TenantID = &ownerID
		}

		if raw := middleware.CustomerIDFromContext(ctx); raw != "" {
			if customerID, err := uuid.Parse(raw); err == nil {
				input.CustomerID = &customerID
			}
		}

		placed, err := svc.PlaceOrder(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, placed)
	}
}

// OrderList returns a page of the owner's orders, newest first.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultOrderPageSize, 1, maxOrderPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listed, err := svc.ListOrders(r.Context(), ownerID, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}

// OrderDetail returns one order of the owner's store with its line items.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), ownerID, chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderStatusUpdate patches an order's fulfilment status, payment status,
// or both. Marking a payment failed goes through here when the gateway never
// confirms an online order.
func OrderStatusUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Status == "" && payload.PaymentStatus == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "status or payment_status is required"))
			return
		}

		orderID := chi.URLParam(r, "orderId")

		var order *orders.OrderDTO
		if payload.Status != "" {
			status, err := enums.ParseOrderStatus(payload.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			order, err = svc.UpdateStatus(r.Context(), ownerID, orderID, status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		if payload.PaymentStatus != "" {
			paymentStatus, err := enums.ParsePaymentStatus(payload.PaymentStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
				return
			}
			// Scope to the owner's store before the unscoped payment update.
			if order == nil {
				if _, err := svc.GetOrder(r.Context(), ownerID, orderID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
			order, err = svc.UpdatePaymentStatus(r.Context(), orderID, orders.PaymentUpdate{
				PaymentStatus: paymentStatus,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, order)
	}
}

// MyOrders returns the authenticated customer's order history across stores.
func MyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listed, err := svc.ListCustomerOrders(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}

// MyOrderDetail returns one of the customer's own orders.
func MyOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrderByID(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order.CustomerID == nil || *order.CustomerID != customerID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		responses.WriteSuccess(w, order)
	}
}
