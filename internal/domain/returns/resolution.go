// internal/domain/returns/resolution.go
package returns

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Resolution describes the effects of completing a request: what the
// customer is owed and what happens to the originating order item.
type Resolution struct {
	RefundAmount      int64            // Cents refunded, returns only
	RestockQuantity   int              // Units added back to stock, returns only
	ItemStatus        order.ItemStatus // Final status of the originating item
	CreateReplacement bool
}

// ResolveCompletion validates the completion params against the request
// type and computes the resolution. A return refunds and restocks; a
// replacement creates a new order and never touches stock.
func ResolveCompletion(typ RequestType, quantity int, params *CompleteParams) (*Resolution, error) {
	switch typ {
	case TypeReturn:
		if params.RefundAmount == nil || *params.RefundAmount <= 0 {
			return nil, fmt.Errorf("completing a return requires a refund amount")
		}
		return &Resolution{
			RefundAmount:    *params.RefundAmount,
			RestockQuantity: quantity,
			ItemStatus:      order.ItemStatusReturned,
		}, nil
	case TypeReplace:
		if params.RefundAmount != nil {
			return nil, fmt.Errorf("a replacement resolves with a new order, not a refund")
		}
		return &Resolution{
			ItemStatus:        order.ItemStatusReplaced,
			CreateReplacement: true,
		}, nil
	}
	return nil, fmt.Errorf("unknown request type %q", typ)
}

// buildReplacementOrder assembles the zero-charge order and line that ship
// a replacement, snapshotting the original item's fields. The caller
// persists both and fills in the line's order ID.
func buildReplacementOrder(original *order.Order, item *order.OrderItem, requestID uint, quantity int, now time.Time) (order.Order, order.OrderItem) {
	lineTotal := item.Price * int64(quantity)

	replacement := order.Order{
		// One replacement per request keeps this number unique
		OrderNumber:         fmt.Sprintf("ORD-%s-R%05d", now.Format("20060102"), requestID),
		UserID:              original.UserID,
		Email:               original.Email,
		Status:              order.StatusPending,
		SubtotalAmount:      lineTotal,
		DiscountAmount:      lineTotal, // Replacement ships at no charge
		DeliveryCharge:      0,
		TotalAmount:         0,
		ShippingAddress:     original.ShippingAddress,
		Currency:            original.Currency,
		PaymentMethod:       "replacement",
		ReplacesOrderItemID: &item.ID,
	}

	line := order.OrderItem{
		ProductID:  item.ProductID,
		SKU:        item.SKU,
		Name:       item.Name,
		BrandName:  item.BrandName,
		ImageURL:   item.ImageURL,
		Size:       item.Size,
		Color:      item.Color,
		Quantity:   quantity,
		Price:      item.Price,
		TotalPrice: lineTotal,
		Status:     order.ItemStatusPending,
	}

	return replacement, line
}
