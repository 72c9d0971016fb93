package middleware

import (
	"net/http"
	"strings"

	"github.com/asachdeva-dev/shopfront-backend/api/responses"
	pkgauth "github.com/asachdeva-dev/shopfront-backend/pkg/auth"
	"github.com/asachdeva-dev/shopfront-backend/pkg/config"
	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
)

// OwnerAuth validates a bearer token minted for a store owner and seeds the
// request context with the owner id.
func OwnerAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(cfg, logg, pkgauth.SubjectOwner)
}

// CustomerAuth validates a bearer token minted for a customer and seeds the
// request context with the customer id.
func CustomerAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return requireKind(cfg, logg, pkgauth.SubjectCustomer)
}

func requireKind(cfg config.JWTConfig, logg *logger.Logger, kind pkgauth.SubjectKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.Kind != kind {
				// An owner token on a customer route (or the reverse) is a
				// privilege mismatch, not a parsing failure.
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "wrong token audience"))
				return
			}

			ctx := r.Context()
			subject := claims.SubjectID.String()
			switch kind {
			case pkgauth.SubjectOwner:
				ctx = WithOwnerID(ctx, subject)
				if logg != nil {
					ctx = logg.WithOwnerID(ctx, subject)
				}
			case pkgauth.SubjectCustomer:
				ctx = WithCustomerID(ctx, subject)
				if logg != nil {
					ctx = logg.WithCustomerID(ctx, subject)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCustomerAuth attaches the customer id when a valid customer token
// is present but lets anonymous requests through. Guest checkout depends on
// this: a missing or foreign token is not an error here.
func OptionalCustomerAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil || claims.Kind != pkgauth.SubjectCustomer {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithCustomerID(r.Context(), claims.SubjectID.String())
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, claims.SubjectID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
