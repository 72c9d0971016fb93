package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asachdeva-dev/shopfront-backend/api/controllers"
	"github.com/asachdeva-dev/shopfront-backend/api/middleware"
	authsvc "github.com/asachdeva-dev/shopfront-backend/internal/auth"
	"github.com/asachdeva-dev/shopfront-backend/internal/catalog"
	customersvc "github.com/asachdeva-dev/shopfront-backend/internal/customers"
	"github.com/asachdeva-dev/shopfront-backend/internal/orders"
	"github.com/asachdeva-dev/shopfront-backend/internal/payments"
	"github.com/asachdeva-dev/shopfront-backend/internal/settings"
	"github.com/asachdeva-dev/shopfront-backend/pkg/config"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/logger"
	pkgredis "github.com/asachdeva-dev/shopfront-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.Client
	Redis     *pkgredis.Client
	Auth      authsvc.Service
	Customers customersvc.Service
	Catalog   catalog.Service
	Settings  settings.Service
	Orders    orders.Service
	Payments  payments.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(corsOrigins(cfg)),
		middleware.Logging(logg),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	passthrough := func(next http.Handler) http.Handler { return next }
	loginLimit, registerLimit := passthrough, passthrough
	if deps.Redis != nil {
		idempotencyStore = deps.Redis
		loginPolicy := middleware.NewAuthRateLimitPolicy("login", 15*time.Minute, 20, 10)
		registerPolicy := middleware.NewAuthRateLimitPolicy("register", time.Hour, 10, 5)
		loginLimit = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Public storefront surface, keyed by slug.
	r.Route("/api/stores/{storeSlug}", func(r chi.Router) {
		r.Get("/", controllers.StorefrontDetails(deps.Settings, logg))
		r.Get("/products", controllers.StorefrontProducts(deps.Settings, deps.Catalog, logg))
		r.Get("/gateway-key", controllers.StorefrontGatewayKey(deps.Settings, logg))
		r.Post("/payments/intent", controllers.PaymentCreateIntent(deps.Payments, deps.Settings, logg))
	})

	// Owner auth.
	r.Route("/api/auth", func(r chi.Router) {
		r.With(registerLimit, middleware.Idempotency(idempotencyStore, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(loginLimit).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.OwnerAuth(cfg.JWT, logg)).Get("/me", controllers.AuthProfile(deps.Auth, logg))
	})

	// Customer auth and profile.
	r.Route("/api/customers", func(r chi.Router) {
		r.With(registerLimit, middleware.Idempotency(idempotencyStore, logg)).Post("/register", controllers.CustomerRegister(deps.Customers, logg))
		r.With(loginLimit).Post("/login", controllers.CustomerLogin(deps.Customers, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CustomerAuth(cfg.JWT, logg))
			r.Get("/me", controllers.CustomerProfile(deps.Customers, logg))
			r.Put("/me", controllers.CustomerProfileUpdate(deps.Customers, logg))
			r.Get("/me/orders", controllers.MyOrders(deps.Orders, logg))
			r.Get("/me/orders/{orderId}", controllers.MyOrderDetail(deps.Orders, logg))
		})
	})

	// Checkout and payment reconciliation. Guest-friendly: customer auth is
	// optional on placement, absent on verification.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalCustomerAuth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))
		r.Post("/api/orders", controllers.OrderPlace(deps.Orders, deps.Settings, logg))
		r.Post("/api/payments/verify", controllers.PaymentVerify(deps.Payments, logg))
	})

	// Owner admin surface.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.OwnerAuth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Post("/", controllers.ProductCreate(deps.Catalog, logg))
			r.Post("/import", controllers.ProductImportCSV(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.Catalog, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.OrderStatusUpdate(deps.Orders, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.SettingsGet(deps.Settings, logg))
			r.Put("/", controllers.SettingsUpdate(deps.Settings, logg))
			r.Put("/live", controllers.SettingsLiveToggle(deps.Settings, logg))
			r.Put("/online-payment", controllers.SettingsOnlinePaymentToggle(deps.Settings, logg))
			r.Put("/gateway-keys", controllers.SettingsGatewayKeys(deps.Settings, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.StoreCustomers(deps.Customers, logg))
			r.Get("/{customerId}/orders", controllers.StoreCustomerOrders(deps.Orders, logg))
		})
	})

	return r
}

func corsOrigins(cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}
	return cfg.CORS.AllowedOrigins
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	out := map[string]controllers.Pinger{}
	if deps.DB != nil {
		out["database"] = deps.DB
	}
	if deps.Redis != nil {
		out["redis"] = deps.Redis
	}
	return out
}
