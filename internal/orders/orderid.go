package orders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/asachdeva-dev/shopfront-backend/pkg/db/models"
)

const idScanLimit = 100

// NextOrderID produces the next date-prefixed order ID, e.g. the third order
// on 2025-11-18 is "2025111803". The scan runs outside the placement
// transaction; two concurrent checkouts can race for the same sequence
// number, which the primary key then rejects for one of them.
//
// Beyond 99 orders in a day the suffix grows to three digits instead of
// wrapping. The scan orders by id length before value: plain "id DESC" is
// lexicographic, which ranks longer suffixes below shorter ones and could
// push the day's true maximum past the row limit on very busy days. If the
// scan itself fails the ID degrades to a timestamp-derived suffix rather
// than aborting checkout.
func (r *Repository) NextOrderID(ctx context.Context, now time.Time) string {
	prefix := now.Format("20060102")

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id LIKE ?", prefix+"%").
		Order("length(id) DESC, id DESC").
		Limit(idScanLimit).
		Pluck("id", &ids).Error
	if err != nil {
		return fallbackOrderID(prefix, now)
	}

	maxSeq := 0
	for _, id := range ids {
		if len(id) <= len(prefix) {
			continue
		}
		if n, err := strconv.Atoi(id[len(prefix):]); err == nil && n > maxSeq {
			maxSeq = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, maxSeq+1)
}

func fallbackOrderID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%02d", prefix, now.UnixMilli()%100)
}
