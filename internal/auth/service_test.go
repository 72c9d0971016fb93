package auth

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

	dsn := "file:auth_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, config.JWTConfig) {
	t.Helper()

	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "shopfront", ExpirationMinutes: 5}
	svc, err := NewService(NewRepository(openTestDB(t)), cfg)
	require.NoError(t, err)
	return svc, cfg
}

func TestRegisterAndLogin(t *testing.T) {
	svc, cfg := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Name:     "Anu Sharma",
		Email:    "Anu@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "anu@example.com", registered.Owner.Email, "email is normalized")
	assert.NotEmpty(t, registered.AccessToken)

	claims, err := pkgauth.ParseAccessToken(cfg, registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Owner.ID, claims.SubjectID)
	assert.Equal(t, pkgauth.SubjectOwner, claims.Kind)

	loggedIn, err := svc.Login(ctx, LoginInput{Email: "anu@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.Owner.ID, loggedIn.Owner.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.com", Password: "long enough"}},
		{"missing email", RegisterInput{Name: "A", Password: "long enough"}},
		{"malformed email", RegisterInput{Name: "A", Email: "not-an-email", Password: "long enough"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.com", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			requireCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@example.com", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "DUP@example.com", Password: "long enough"})
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "wrong password"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@b.com", Password: "long enough"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.com", Password: "long enough"})
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, registered.Owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", profile.Email)

	_, err = svc.Profile(ctx, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected coded error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}
