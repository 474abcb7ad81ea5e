// internal/domain/checkout/service_test.go
package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
)

func testService() *Service {
	return &Service{
		config: &config.Config{
			Checkout: config.CheckoutConfig{
				DeliveryCharge:        4900,
				FreeDeliveryThreshold: 99900,
			},
		},
	}
}

func lines(price int64, quantity int) []cart.Line {
	return []cart.Line{
		{ProductID: 1, Size: "M", Color: "Black", Quantity: quantity, Price: price, AddedAt: time.Now()},
	}
}

func TestPricingChargesDeliveryBelowThreshold(t *testing.T) {
	s := testService()

	pricing := s.calculatePricing(lines(10000, 2), nil)

	assert.Equal(t, int64(20000), pricing.Subtotal)
	assert.Equal(t, int64(4900), pricing.DeliveryCharge)
	assert.Equal(t, int64(24900), pricing.TotalAmount)
}

func TestPricingFreeDeliveryAtThreshold(t *testing.T) {
	s := testService()

	pricing := s.calculatePricing(lines(99900, 1), nil)

	assert.Equal(t, int64(0), pricing.DeliveryCharge)
	assert.Equal(t, int64(99900), pricing.TotalAmount)
}

func TestPricingDiscountCannotExceedSubtotal(t *testing.T) {
	s := testService()
	applied := &CouponApplication{Applied: true, DiscountAmount: 50000}

	pricing := s.calculatePricing(lines(10000, 1), applied)

	assert.Equal(t, int64(10000), pricing.DiscountAmount)
	assert.Equal(t, pricing.DeliveryCharge, pricing.TotalAmount)
}

func TestPricingCouponCountsTowardFreeDelivery(t *testing.T) {
	s := testService()
	applied := &CouponApplication{Applied: true, DiscountAmount: 5000}

	// Post-discount subtotal lands below the threshold, so delivery applies
	pricing := s.calculatePricing(lines(100000, 1), applied)

	assert.Equal(t, int64(4900), pricing.DeliveryCharge)
}

func TestValidateCouponUnknownCode(t *testing.T) {
	s := testService()

	application := s.validateCoupon("NOPE", 100000)

	assert.False(t, application.Applied)
	assert.Equal(t, "coupon not found", application.Message)
}

func TestValidateCouponMinimumOrder(t *testing.T) {
	s := testService()

	application := s.validateCoupon("WELCOME10", 40000)

	assert.False(t, application.Applied)
	assert.Equal(t, int64(50000), application.MinOrderAmount)
}

func TestValidateCouponPercentageCapped(t *testing.T) {
	s := testService()

	// 10% of 500000 is 50000, capped at 20000
	application := s.validateCoupon("WELCOME10", 500000)

	assert.True(t, application.Applied)
	assert.Equal(t, int64(20000), application.DiscountAmount)
}

func TestValidateCouponFixedAmount(t *testing.T) {
	s := testService()

	application := s.validateCoupon("FLAT50", 200000)

	assert.True(t, application.Applied)
	assert.Equal(t, int64(5000), application.DiscountAmount)
}
