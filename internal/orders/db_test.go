package orders

import (
	"context"
	"testing"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/internal/catalog"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type stubGate struct {
	open bool
	min  *decimal.Decimal
}

func (g stubGate) StoreOpen(context.Context, uuid.UUID, time.Time) (bool, error) {
	return g.open, nil
}

func (g stubGate) MinimumOrderValue(context.Context, uuid.UUID) (*decimal.Decimal, error) {
	return g.min, nil
}

type testEnv struct {
	conn        *gorm.DB
	svc         Service
	repo        *Repository
	catalogRepo *catalog.Repository
	owner       uuid.UUID
}

func newTestEnv(t *testing.T, gate stubGate) *testEnv {
	t.Helper()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)

	svc, err := NewService(repo, catalogRepo, db.NewWithConn(conn), gate, nil, nil)
	require.NoError(t, err)

	return &testEnv{
		conn:        conn,
		svc:         svc,
		repo:        repo,
		catalogRepo: catalogRepo,
		owner:       uuid.New(),
	}
}

func (e *testEnv) seedProduct(t *testing.T, id string, price int64, qty int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       id,
		OwnerID:  e.owner,
		Name:     "Product " + id,
		Price:    decimal.NewFromInt(price),
		Quantity: qty,
	}
	require.NoError(t, e.catalogRepo.Create(context.Background(), product))
	return product
}
