package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

func refund(amount int64) *int64 { return &amount }

func TestReturnCompletionRestocksRequestQuantity(t *testing.T) {
	resolution, err := ResolveCompletion(TypeReturn, 3, &CompleteParams{RefundAmount: refund(4500)})
	require.NoError(t, err)

	assert.Equal(t, 3, resolution.RestockQuantity)
	assert.Equal(t, int64(4500), resolution.RefundAmount)
	assert.Equal(t, order.ItemStatusReturned, resolution.ItemStatus)
	assert.False(t, resolution.CreateReplacement)
}

func TestReplaceCompletionDoesNotRestock(t *testing.T) {
	resolution, err := ResolveCompletion(TypeReplace, 3, &CompleteParams{})
	require.NoError(t, err)

	assert.Equal(t, 0, resolution.RestockQuantity)
	assert.Equal(t, order.ItemStatusReplaced, resolution.ItemStatus)
	assert.True(t, resolution.CreateReplacement)
}

func TestReturnCompletionRequiresRefund(t *testing.T) {
	_, err := ResolveCompletion(TypeReturn, 1, &CompleteParams{})
	assert.Error(t, err)

	_, err = ResolveCompletion(TypeReturn, 1, &CompleteParams{RefundAmount: refund(0)})
	assert.Error(t, err)
}

func TestReplaceCompletionRejectsRefund(t *testing.T) {
	_, err := ResolveCompletion(TypeReplace, 1, &CompleteParams{RefundAmount: refund(4500)})
	assert.Error(t, err)
}

func TestReplacementOrderShipsAtNoCharge(t *testing.T) {
	original := &order.Order{
		UserID:   7,
		Email:    "customer@example.com",
		Currency: "USD",
	}
	item := &order.OrderItem{
		ID:        11,
		ProductID: 5,
		SKU:       "TS-001",
		Name:      "Crew Tee",
		Size:      "M",
		Color:     "Black",
		Price:     2500,
	}

	replacement, line := buildReplacementOrder(original, item, 42, 2, time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, "ORD-20260831-R00042", replacement.OrderNumber)
	assert.Equal(t, int64(5000), replacement.SubtotalAmount)
	assert.Equal(t, int64(5000), replacement.DiscountAmount)
	assert.Equal(t, int64(0), replacement.TotalAmount)
	assert.Equal(t, "replacement", replacement.PaymentMethod)
	require.NotNil(t, replacement.ReplacesOrderItemID)
	assert.Equal(t, uint(11), *replacement.ReplacesOrderItemID)

	// Line snapshots the original item at the requested quantity
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(2500), line.Price)
	assert.Equal(t, int64(5000), line.TotalPrice)
	assert.Equal(t, order.ItemStatusPending, line.Status)
}
