package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkDeliveredStampsWindows(t *testing.T) {
	item := OrderItem{Status: ItemStatusShipped}
	deliveredAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	item.MarkDelivered(deliveredAt, 7*24*time.Hour, 10*24*time.Hour)

	assert.Equal(t, ItemStatusDelivered, item.Status)
	require.NotNil(t, item.DeliveredAt)
	assert.Equal(t, deliveredAt, *item.DeliveredAt)

	require.NotNil(t, item.ReturnWindowEndsAt)
	assert.Equal(t, deliveredAt.AddDate(0, 0, 7), *item.ReturnWindowEndsAt)

	require.NotNil(t, item.ReplaceWindowEndsAt)
	assert.Equal(t, deliveredAt.AddDate(0, 0, 10), *item.ReplaceWindowEndsAt)
}

func TestCanBeCancelled(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusProcessing, false},
		{StatusShipped, false},
		{StatusDelivered, false},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			o := Order{Status: tt.status}
			assert.Equal(t, tt.want, o.CanBeCancelled())
		})
	}
}
