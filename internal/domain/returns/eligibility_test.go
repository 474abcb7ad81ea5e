package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

func deliveredItem(deliveredAt time.Time, returnDays, replaceDays int) *order.OrderItem {
	item := &order.OrderItem{Status: order.ItemStatusShipped}
	item.MarkDelivered(deliveredAt,
		time.Duration(returnDays)*24*time.Hour,
		time.Duration(replaceDays)*24*time.Hour)
	return item
}

func TestEligibilityWithinWindow(t *testing.T) {
	deliveredAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	item := deliveredItem(deliveredAt, 7, 7)

	now := deliveredAt.AddDate(0, 0, 3)
	assert.NoError(t, CheckEligibility(item, TypeReturn, now, false))
	assert.NoError(t, CheckEligibility(item, TypeReplace, now, false))
}

func TestEligibilityRejectsElapsedWindow(t *testing.T) {
	deliveredAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	item := deliveredItem(deliveredAt, 7, 7)

	// 10 days after delivery with a 7 day window
	now := deliveredAt.AddDate(0, 0, 10)
	err := CheckEligibility(item, TypeReturn, now, false)
	assert.ErrorIs(t, err, ErrWindowElapsed)
}

func TestEligibilityRejectsUndeliveredItem(t *testing.T) {
	item := &order.OrderItem{Status: order.ItemStatusShipped}
	err := CheckEligibility(item, TypeReturn, time.Now().UTC(), false)
	assert.ErrorIs(t, err, ErrItemNotDelivered)
}

func TestEligibilityRejectsDuplicateOpenRequest(t *testing.T) {
	deliveredAt := time.Now().UTC().AddDate(0, 0, -1)
	item := deliveredItem(deliveredAt, 7, 7)

	err := CheckEligibility(item, TypeReturn, time.Now().UTC(), true)
	assert.ErrorIs(t, err, ErrOpenRequest)
}

func TestEligibilityWindowsAreIndependent(t *testing.T) {
	deliveredAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	item := deliveredItem(deliveredAt, 3, 10)

	now := deliveredAt.AddDate(0, 0, 5)
	assert.ErrorIs(t, CheckEligibility(item, TypeReturn, now, false), ErrWindowElapsed)
	assert.NoError(t, CheckEligibility(item, TypeReplace, now, false))
}
