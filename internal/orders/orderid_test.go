package orders

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
	"github.com/asachdeva-dev/shopfront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderIDPattern = regexp.MustCompile(`^\d{8}\d{2,}$`)

func insertOrderRow(t *testing.T, repo *Repository, id string) {
	t.Helper()
	order := &models.Order{
		ID:            id,
		OwnerID:       uuid.New(),
		CustomerName:  "Test",
		CustomerPhone: "999",
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCOD,
		PaymentStatus: enums.PaymentStatusPaid,
		Total:         decimal.NewFromInt(10),
	}
	require.NoError(t, repo.CreateWithItems(context.Background(), order))
}

func TestNextOrderID_Sequence(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Date(2025, time.November, 18, 12, 0, 0, 0, time.UTC)

	first := repo.NextOrderID(ctx, now)
	assert.Equal(t, "2025111801", first)
	insertOrderRow(t, repo, first)

	second := repo.NextOrderID(ctx, now)
	assert.Equal(t, "2025111802", second)
	insertOrderRow(t, repo, second)

	third := repo.NextOrderID(ctx, now)
	assert.Equal(t, "2025111803", third)
}

func TestNextOrderID_IgnoresOtherDays(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	insertOrderRow(t, repo, "2025111707")

	now := time.Date(2025, time.November, 18, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025111801", repo.NextOrderID(ctx, now))
}

func TestNextOrderID_GrowsPast99(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	insertOrderRow(t, repo, "2025111899")

	now := time.Date(2025, time.November, 18, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "20251118100", repo.NextOrderID(ctx, now))
}

func TestNextOrderID_DeepDayFindsLongestSuffix(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	// More rows than the scan window, with the true maximum carrying a
	// longer suffix than most. Lexicographic ordering would rank it below
	// every shorter suffix and drop it from the window.
	for seq := 10; seq <= 199; seq++ {
		insertOrderRow(t, repo, fmt.Sprintf("20251118%d", seq))
	}
	insertOrderRow(t, repo, "202511181000")

	now := time.Date(2025, time.November, 18, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "202511181001", repo.NextOrderID(ctx, now))
}

func TestNextOrderID_MatchesWireFormat(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	id := repo.NextOrderID(context.Background(), time.Now())
	assert.Regexp(t, orderIDPattern, id)
}

func TestFallbackOrderID(t *testing.T) {
	now := time.Date(2025, time.November, 18, 12, 0, 0, 123_000_000, time.UTC)
	id := fallbackOrderID("20251118", now)
	assert.Regexp(t, orderIDPattern, id)
	assert.Equal(t, fmt.Sprintf("20251118%02d", now.UnixMilli()%100), id)
}
