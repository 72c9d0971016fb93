package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authsvc "github.com/asachdeva-dev/shopfront-backend/internal/auth"
	"github.com/asachdeva-dev/shopfront-backend/internal/catalog"
	customersvc "github.com/asachdeva-dev/shopfront-backend/internal/customers"
	"github.com/asachdeva-dev/shopfront-backend/internal/orders"
	"github.com/asachdeva-dev/shopfront-backend/internal/payments"
	"github.com/asachdeva-dev/shopfront-backend/internal/settings"
	"github.com/asachdeva-dev/shopfront-backend/pkg/config"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/asachdeva-dev/shopfront-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "shopfront", ExpirationMinutes: 60},
		Schedule: config.ScheduleConfig{
			DefaultTimezone: "Asia/Kolkata",
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://shop.example.com"},
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.StoreSettings{},
		&models.Order{},
		&models.OrderItem{},
	))

	cfg := testConfig()
	client := db.NewWithConn(conn)

	cipher, err := security.NewSecretCipher([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	settingsSvc, err := settings.NewService(settings.NewRepository(conn), client, cipher, cfg.Schedule.DefaultTimezone)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn), client)
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(orders.NewRepository(conn), catalog.NewRepository(conn), client, settingsSvc, nil, nil)
	require.NoError(t, err)
	paymentsSvc, err := payments.NewService(payments.NewRazorpayGateway(), settingsSvc, ordersSvc, nil, nil)
	require.NoError(t, err)
	ownerAuthSvc, err := authsvc.NewService(authsvc.NewRepository(conn), cfg.JWT)
	require.NoError(t, err)
	customersSvc, err := customersvc.NewService(customersvc.NewRepository(conn), cfg.JWT)
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:    cfg,
		DB:        client,
		Auth:      ownerAuthSvc,
		Customers: customersSvc,
		Catalog:   catalogSvc,
		Settings:  settingsSvc,
		Orders:    ordersSvc,
		Payments:  paymentsSvc,
	})
	return handler, conn
}

func doJSON(t *testing.T, handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope), "body: %s", resp.Body.String())
	return envelope.Data
}

func registerOwner(t *testing.T, handler http.Handler) string {
	t.Helper()
	resp := doJSON(t, handler, http.MethodPost, "/api/auth/register", "",
		`{"name":"Anu","email":"anu@example.com","password":"long enough"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	token, _ := decodeData(t, resp)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthLive(t *testing.T) {
	handler, _ := newTestRouter(t)
	resp := doJSON(t, handler, http.MethodGet, "/health/live", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Idempotency-Key")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	assert.Equal(t, "https://shop.example.com", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	// Unlisted origins get no allowance.
	req = httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestOwnerAuthFlow(t *testing.T) {
	handler, _ := newTestRouter(t)
	token := registerOwner(t, handler)

	resp := doJSON(t, handler, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "anu@example.com", decodeData(t, resp)["email"])

	resp = doJSON(t, handler, http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProductCRUDAndPublicCatalog(t *testing.T) {
	handler, _ := newTestRouter(t)
	token := registerOwner(t, handler)

	resp := doJSON(t, handler, http.MethodPost, "/api/admin/products", token,
		`{"name":"Full Cream Milk","price":"50.00","quantity":5,"unit":"litre"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	productID, _ := decodeData(t, resp)["id"].(string)
	require.NotEmpty(t, productID)

	// Name the store so the public slug exists.
	resp = doJSON(t, handler, http.MethodPut, "/api/admin/settings", token,
		`{"store_name":"Anu Dairy","is_live":true}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	slug, _ := decodeData(t, resp)["slug"].(string)
	require.Equal(t, "anu-dairy", slug)

	resp = doJSON(t, handler, http.MethodGet, "/api/stores/anu-dairy/products", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Full Cream Milk")

	resp = doJSON(t, handler, http.MethodGet, "/api/stores/anu-dairy/", "", "")
	require.Equal(t, http.StatusOK, resp.Code)

	// Another owner's token cannot touch the product.
	resp = doJSON(t, handler, http.MethodPost, "/api/auth/register", "",
		`{"name":"Rival","email":"rival@example.com","password":"long enough"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	rival, _ := decodeData(t, resp)["access_token"].(string)

	resp = doJSON(t, handler, http.MethodGet, "/api/admin/products/"+productID, rival, "")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCheckoutFlow(t *testing.T) {
	handler, _ := newTestRouter(t)
	token := registerOwner(t, handler)

	resp := doJSON(t, handler, http.MethodPut, "/api/admin/settings", token,
		`{"store_name":"Anu Dairy","is_live":true}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/admin/products", token,
		`{"name":"Milk","price":"50.00","quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	productID, _ := decodeData(t, resp)["id"].(string)

	body := fmt.Sprintf(`{"store_slug":"anu-dairy","items":[{"product_id":"%s","quantity":2}],"customer":{"name":"Ravi","phone":"9876543210"}}`, productID)
	resp = doJSON(t, handler, http.MethodPost, "/api/orders", "", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	placed := decodeData(t, resp)
	assert.Equal(t, "100", decimal.RequireFromString(placed["total"].(string)).String())
	assert.Equal(t, "paid", placed["payment_status"], "cod orders are settled on delivery")
	orderID, _ := placed["id"].(string)
	require.NotEmpty(t, orderID)

	// Overselling fails the whole order.
	over := fmt.Sprintf(`{"store_slug":"anu-dairy","items":[{"product_id":"%s","quantity":10}],"customer":{"name":"Ravi","phone":"9876543210"}}`, productID)
	resp = doJSON(t, handler, http.MethodPost, "/api/orders", "", over)
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "INSUFFICIENT_STOCK")

	// Owner sees the order and can complete it.
	resp = doJSON(t, handler, http.MethodGet, "/api/admin/orders", token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), orderID)

	// Paging params are validated before they reach the database.
	resp = doJSON(t, handler, http.MethodGet, "/api/admin/orders?limit=abc", token, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	resp = doJSON(t, handler, http.MethodGet, "/api/admin/orders?limit=1", token, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", token, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "completed", decodeData(t, resp)["status"])

	// Empty carts never reach the database.
	resp = doJSON(t, handler, http.MethodPost, "/api/orders", "",
		`{"store_slug":"anu-dairy","items":[],"customer":{"name":"Ravi","phone":"9876543210"}}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminMarksPaymentFailed(t *testing.T) {
	handler, _ := newTestRouter(t)
	token := registerOwner(t, handler)

	resp := doJSON(t, handler, http.MethodPut, "/api/admin/settings", token,
		`{"store_name":"Anu Dairy","is_live":true}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/admin/products", token,
		`{"name":"Milk","price":"50.00","quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	productID, _ := decodeData(t, resp)["id"].(string)

	// Online orders wait for the gateway, so they start out pending.
	body := fmt.Sprintf(`{"store_slug":"anu-dairy","items":[{"product_id":"%s","quantity":1}],"customer":{"name":"Ravi","phone":"9876543210"},"payment_method":"online","gateway_order_id":"order_abc123"}`, productID)
	resp = doJSON(t, handler, http.MethodPost, "/api/orders", "", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	placed := decodeData(t, resp)
	require.Equal(t, "pending", placed["payment_status"])
	orderID, _ := placed["id"].(string)

	// Gateway never confirmed; the owner writes the payment off.
	resp = doJSON(t, handler, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", token, `{"payment_status":"failed"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	patched := decodeData(t, resp)
	assert.Equal(t, "failed", patched["payment_status"])
	assert.Equal(t, "pending", patched["status"], "fulfilment status is untouched")

	// A patch with neither field is rejected.
	resp = doJSON(t, handler, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", token, `{}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	// Another owner cannot reach the order.
	resp = doJSON(t, handler, http.MethodPost, "/api/auth/register", "",
		`{"name":"Rival","email":"rival2@example.com","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	rival, _ := decodeData(t, resp)["access_token"].(string)
	resp = doJSON(t, handler, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", rival, `{"payment_status":"failed"}`)
	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestClosedStoreRejectsCheckout(t *testing.T) {
	handler, _ := newTestRouter(t)
	token := registerOwner(t, handler)

	resp := doJSON(t, handler, http.MethodPut, "/api/admin/settings", token,
		`{"store_name":"Anu Dairy","is_live":false}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/admin/products", token,
		`{"name":"Milk","price":"50.00","quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	productID, _ := decodeData(t, resp)["id"].(string)

	body := fmt.Sprintf(`{"store_slug":"anu-dairy","items":[{"product_id":"%s","quantity":1}],"customer":{"name":"Ravi","phone":"9876543210"}}`, productID)
	resp = doJSON(t, handler, http.MethodPost, "/api/orders", "", body)
	require.Equal(t, http.StatusServiceUnavailable, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "STORE_CLOSED")
}

func TestCustomerOrderHistory(t *testing.T) {
	handler, _ := newTestRouter(t)
	ownerToken := registerOwner(t, handler)

	resp := doJSON(t, handler, http.MethodPut, "/api/admin/settings", ownerToken,
		`{"store_name":"Anu Dairy","is_live":true}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/admin/products", ownerToken,
		`{"name":"Milk","price":"50.00","quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	productID, _ := decodeData(t, resp)["id"].(string)

	resp = doJSON(t, handler, http.MethodPost, "/api/customers/register", "",
		`{"name":"Ravi","email":"ravi@example.com","password":"long enough"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	customerToken, _ := decodeData(t, resp)["access_token"].(string)

	body := fmt.Sprintf(`{"store_slug":"anu-dairy","items":[{"product_id":"%s","quantity":1}],"customer":{"name":"Ravi","phone":"9876543210"}}`, productID)
	resp = doJSON(t, handler, http.MethodPost, "/api/orders", customerToken, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	orderID, _ := decodeData(t, resp)["id"].(string)

	resp = doJSON(t, handler, http.MethodGet, "/api/customers/me/orders", customerToken, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), orderID)

	// The owner's customer list picks up the buyer.
	resp = doJSON(t, handler, http.MethodGet, "/api/admin/customers", ownerToken, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "ravi@example.com")

	// An owner token cannot use the customer surface.
	resp = doJSON(t, handler, http.MethodGet, "/api/customers/me/orders", ownerToken, "")
	require.Equal(t, http.StatusForbidden, resp.Code)
}
