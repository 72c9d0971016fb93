package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asachdeva-dev/shopfront-backend/api/responses"
	"github.com/asachdeva-dev/shopfront-backend/internal/catalog"
	"github.com/asachdeva-dev/shopfront-backend/internal/settings"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
)

// StorefrontDetails returns the public profile of a store, including whether
// it is currently accepting orders.
func StorefrontDetails(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "storeSlug")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStoreSlug(ctx, slug)
		}

		dto, err := svc.GetStorefront(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// StorefrontProducts returns a store's public catalog.
func StorefrontProducts(settingsSvc settings.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "storeSlug")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStoreSlug(ctx, slug)
		}

		ownerID, err := settingsSvc.ResolveOwnerBySlug(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		listed, err := catalogSvc.ListProducts(ctx, ownerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, listed)
	}
}

// StorefrontGatewayKey exposes the public gateway key id for checkout widgets.
// The secret never leaves the server.
func StorefrontGatewayKey(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "storeSlug")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithStoreSlug(ctx, slug)
		}

		ownerID, err := svc.ResolveOwnerBySlug(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		keyID, _, err := svc.GatewayCredentials(ctx, ownerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"key_id": keyID})
	}
}
