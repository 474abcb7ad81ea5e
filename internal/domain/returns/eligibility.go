// internal/domain/returns/eligibility.go
package returns

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Eligibility errors are returned verbatim to the customer, so they spell
// out which condition failed.
var (
	ErrItemNotDelivered = fmt.Errorf("order item has not been delivered")
	ErrWindowElapsed    = fmt.Errorf("not eligible: the request window has elapsed")
	ErrOpenRequest      = fmt.Errorf("an open request already exists for this order item")
)

// CheckEligibility validates that a request of the given type may be
// created for the order item at the given time. hasOpenRequest reports
// whether a non-terminal request already exists for the item.
func CheckEligibility(item *order.OrderItem, typ RequestType, now time.Time, hasOpenRequest bool) error {
	if item.Status != order.ItemStatusDelivered {
		return ErrItemNotDelivered
	}

	var deadline *time.Time
	switch typ {
	case TypeReturn:
		deadline = item.ReturnWindowEndsAt
	case TypeReplace:
		deadline = item.ReplaceWindowEndsAt
	default:
		return fmt.Errorf("unknown request type %q", typ)
	}

	if deadline == nil || now.After(*deadline) {
		return ErrWindowElapsed
	}

	if hasOpenRequest {
		return ErrOpenRequest
	}

	return nil
}
