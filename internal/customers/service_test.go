package customers

import (
	"context"
	"testing"

	pkgauth "github.com/asachdeva-dev/shopfront-backend/pkg/auth"
	"github.com/asachdeva-dev/shopfront-backend/pkg/config"
	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/asachdeva-dev/shopfront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:customers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Customer{}, &models.Order{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB, config.JWTConfig) {
	t.Helper()

	conn := openTestDB(t)
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "shopfront", ExpirationMinutes: 5}
	svc, err := NewService(NewRepository(conn), cfg)
	require.NoError(t, err)
	return svc, conn, cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, cfg := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Name:     "Ravi Kumar",
		Email:    "Ravi@Example.com",
		Phone:    " 9876543210 ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", registered.Customer.Email)
	assert.Equal(t, "9876543210", registered.Customer.Phone)

	claims, err := pkgauth.ParseAccessToken(cfg, registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pkgauth.SubjectCustomer, claims.Kind)
	assert.Equal(t, registered.Customer.ID, claims.SubjectID)

	loggedIn, err := svc.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.Customer.ID, loggedIn.Customer.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "wrong"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@example.com", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "dup@example.com", Password: "long enough"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "long enough"})
	require.NoError(t, err)

	name := "New Name"
	address := "12 MG Road"
	updated, err := svc.UpdateProfile(ctx, registered.Customer.ID, ProfilePatch{Name: &name, Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "12 MG Road", updated.Address)
	assert.Equal(t, "a@b.com", updated.Email, "untouched fields survive")

	empty := "  "
	_, err = svc.UpdateProfile(ctx, registered.Customer.ID, ProfilePatch{Name: &empty})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.UpdateProfile(ctx, uuid.New(), ProfilePatch{Name: &name})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListForOwner(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	buyer, err := svc.Register(ctx, RegisterInput{Name: "Buyer", Email: "buyer@b.com", Password: "long enough"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "Lurker", Email: "lurker@b.com", Password: "long enough"})
	require.NoError(t, err)

	owner := uuid.New()
	buyerID := buyer.Customer.ID
	for _, id := range []string{"2025111801", "2025111802"} {
		require.NoError(t, conn.Create(&models.Order{
			ID:           id,
			OwnerID:      owner,
			CustomerID:   &buyerID,
			CustomerName: "Buyer",
		}).Error)
	}

	listed, err := svc.ListForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 1, "only customers with orders, deduplicated")
	assert.Equal(t, buyerID, listed[0].ID)

	other, err := svc.ListForOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected coded error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}
