// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// CouponCache stores the coupon a user applied between summary and order
// placement. Backed by Redis in production.
type CouponCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service handles checkout business logic. Checkout converts the user's
// persisted cart rows into an immutable order with snapshotted product
// data, decrements stock, and clears the cart in a single transaction.
type Service struct {
	db               *gorm.DB
	config           *config.Config
	cache            CouponCache
	cartService      *cart.Service
	catalogService   *catalog.Service
	inventoryService *inventory.Service
	addressService   *user.AddressService
	emailService     *email.EmailService
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, cfg *config.Config, cache CouponCache) *Service {
	return &Service{
		db:               db,
		config:           cfg,
		cache:            cache,
		cartService:      cart.NewService(db, cfg),
		catalogService:   catalog.NewService(db, cfg),
		inventoryService: inventory.NewService(db),
		addressService:   user.NewAddressService(db, cfg),
		emailService:     email.NewEmailService(cfg),
	}
}

// CouponApplication represents applied coupon details
type CouponApplication struct {
	CouponCode     string `json:"coupon_code"`
	DiscountType   string `json:"discount_type"` // percentage, fixed_amount
	DiscountValue  int64  `json:"discount_value"`
	DiscountAmount int64  `json:"discount_amount"` // Actual discount in cents
	MinOrderAmount int64  `json:"min_order_amount"`
	Applied        bool   `json:"applied"`
	Message        string `json:"message,omitempty"`
}

// Pricing represents the checkout pricing breakdown, all in cents
type Pricing struct {
	Subtotal       int64 `json:"subtotal"`
	DiscountAmount int64 `json:"discount_amount"`
	DeliveryCharge int64 `json:"delivery_charge"`
	TotalAmount    int64 `json:"total_amount"`
}

// Summary represents the pre-placement checkout summary
type Summary struct {
	Lines           []cart.Line        `json:"lines"`
	ShippingAddress *user.Address      `json:"shipping_address,omitempty"`
	Pricing         Pricing            `json:"pricing"`
	AppliedCoupon   *CouponApplication `json:"applied_coupon,omitempty"`
}

// PlaceOrderRequest represents order placement data
type PlaceOrderRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	CouponCode    string `json:"coupon_code"`
	Notes         string `json:"notes"`
}

// coupon is a checkout discount rule
type coupon struct {
	Code           string
	DiscountType   string
	DiscountValue  int64 // Percent for percentage type, cents for fixed_amount
	MinOrderAmount int64
	MaxDiscount    int64
}

// Active coupon table. Small enough that a DB table would be overkill;
// marketing rotates these with releases.
var activeCoupons = map[string]coupon{
	"WELCOME10": {Code: "WELCOME10", DiscountType: "percentage", DiscountValue: 10, MinOrderAmount: 50000, MaxDiscount: 20000},
	"FLAT50":    {Code: "FLAT50", DiscountType: "fixed_amount", DiscountValue: 5000, MinOrderAmount: 150000},
}

// GetSummary computes the checkout summary for the user's current cart
func (s *Service) GetSummary(ctx context.Context, userID uint, addressID *uint) (*Summary, error) {
	lines, err := s.cartService.Fetch(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	var address *user.Address
	if addressID != nil {
		address, err = s.addressService.GetAddress(userID, *addressID)
		if err != nil {
			return nil, err
		}
	} else if defaultAddr, err := s.addressService.GetDefaultAddress(userID); err == nil {
		address = defaultAddr
	}

	applied := s.appliedCoupon(ctx, userID)
	pricing := s.calculatePricing(lines, applied)

	return &Summary{
		Lines:           lines,
		ShippingAddress: address,
		Pricing:         pricing,
		AppliedCoupon:   applied,
	}, nil
}

// ApplyCoupon validates a coupon against the user's cart and remembers it
// for order placement
func (s *Service) ApplyCoupon(ctx context.Context, userID uint, couponCode string) (*CouponApplication, error) {
	lines, err := s.cartService.Fetch(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	subtotal := cart.CalculateTotals(lines).SubTotal
	application := s.validateCoupon(couponCode, subtotal)
	if !application.Applied {
		return application, nil
	}

	if err := s.cache.SetJSON(ctx, s.couponKey(userID), application, 24*time.Hour); err != nil {
		return nil, fmt.Errorf("failed to store applied coupon: %w", err)
	}

	return application, nil
}

// RemoveCoupon removes the applied coupon
func (s *Service) RemoveCoupon(ctx context.Context, userID uint) error {
	return s.cache.Del(ctx, s.couponKey(userID))
}

// PlaceOrder converts the user's cart into an order. Stock is validated
// and decremented under row locks; any failure rolls the whole order
// back and the cart stays intact.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, req *PlaceOrderRequest) (*order.Order, error) {
	var customer user.User
	if err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&customer).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	address, err := s.addressService.GetAddress(userID, req.AddressID)
	if err != nil {
		return nil, err
	}
	if err := s.addressService.ValidateAddress(address); err != nil {
		return nil, fmt.Errorf("invalid shipping address: %w", err)
	}

	lines, err := s.cartService.Fetch(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	applied := s.resolveCoupon(ctx, userID, req.CouponCode, lines)
	pricing := s.calculatePricing(lines, applied)

	newOrder := order.Order{
		OrderNumber:    order.GenerateOrderNumber(),
		UserID:         userID,
		Email:          customer.Email,
		Status:         order.StatusPending,
		SubtotalAmount: pricing.Subtotal,
		DiscountAmount: pricing.DiscountAmount,
		DeliveryCharge: pricing.DeliveryCharge,
		TotalAmount:    pricing.TotalAmount,
		ShippingAddress: order.Address{
			FirstName:    address.FirstName,
			LastName:     address.LastName,
			AddressLine1: address.AddressLine1,
			AddressLine2: address.AddressLine2,
			City:         address.City,
			State:        address.State,
			PostalCode:   address.PostalCode,
			Country:      address.Country,
			Phone:        address.Phone,
		},
		Currency:      s.config.Checkout.Currency,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if applied != nil {
		newOrder.CouponCode = applied.CouponCode
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newOrder).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range lines {
			product, err := s.loadProduct(tx, line.ProductID)
			if err != nil {
				return err
			}
			if err := s.catalogService.ValidateSelection(product, line.Size, line.Color); err != nil {
				return err
			}

			item := order.OrderItem{
				OrderID:    newOrder.ID,
				ProductID:  product.ID,
				SKU:        product.SKU,
				Name:       product.Name,
				BrandName:  product.BrandName(),
				ImageURL:   product.PrimaryImageURL(),
				Size:       line.Size,
				Color:      line.Color,
				Quantity:   line.Quantity,
				Price:      line.Price,
				TotalPrice: line.Price * int64(line.Quantity),
				Status:     order.ItemStatusPending,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			if product.TrackQuantity {
				if err := s.inventoryService.RecordSale(tx, product.ID, line.Quantity, newOrder.ID, userID); err != nil {
					return err
				}
			}
		}

		history := order.StatusHistory{
			OrderID:   newOrder.ID,
			Status:    order.StatusPending,
			Comment:   "order placed",
			CreatedBy: userID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record order history: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&cart.Item{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if applied != nil {
		_ = s.cache.Del(ctx, s.couponKey(userID))
	}

	// Confirmation email is best-effort
	_ = s.emailService.SendOrderConfirmation(ctx, customer.Email, customer.GetFullName(),
		newOrder.OrderNumber, len(lines), newOrder.TotalAmount, newOrder.Currency)

	var placed order.Order
	if err := s.db.Preload("Items").Where("id = ?", newOrder.ID).First(&placed).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return &placed, nil
}

// Private helper methods

func (s *Service) loadProduct(tx *gorm.DB, productID uint) (*catalog.Product, error) {
	var product catalog.Product
	err := tx.Preload("Brand").Preload("Images").
		Where("id = ? AND is_active = ?", productID, true).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product %d is no longer available", productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

func (s *Service) calculatePricing(lines []cart.Line, applied *CouponApplication) Pricing {
	subtotal := cart.CalculateTotals(lines).SubTotal

	var discount int64
	if applied != nil && applied.Applied {
		discount = applied.DiscountAmount
		if discount > subtotal {
			discount = subtotal
		}
	}

	deliveryCharge := s.config.Checkout.DeliveryCharge
	if subtotal-discount >= s.config.Checkout.FreeDeliveryThreshold {
		deliveryCharge = 0
	}

	return Pricing{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DeliveryCharge: deliveryCharge,
		TotalAmount:    subtotal - discount + deliveryCharge,
	}
}

func (s *Service) validateCoupon(code string, subtotal int64) *CouponApplication {
	c, ok := activeCoupons[code]
	if !ok {
		return &CouponApplication{CouponCode: code, Applied: false, Message: "coupon not found"}
	}

	if subtotal < c.MinOrderAmount {
		return &CouponApplication{
			CouponCode:     code,
			MinOrderAmount: c.MinOrderAmount,
			Applied:        false,
			Message:        fmt.Sprintf("order must be at least %d to use this coupon", c.MinOrderAmount),
		}
	}

	var discount int64
	switch c.DiscountType {
	case "percentage":
		discount = subtotal * c.DiscountValue / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case "fixed_amount":
		discount = c.DiscountValue
	}

	return &CouponApplication{
		CouponCode:     c.Code,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		DiscountAmount: discount,
		MinOrderAmount: c.MinOrderAmount,
		Applied:        true,
	}
}

// resolveCoupon prefers an explicit code on the request, falling back to
// the coupon applied earlier in the session
func (s *Service) resolveCoupon(ctx context.Context, userID uint, code string, lines []cart.Line) *CouponApplication {
	if code != "" {
		subtotal := cart.CalculateTotals(lines).SubTotal
		if applied := s.validateCoupon(code, subtotal); applied.Applied {
			return applied
		}
		return nil
	}
	return s.appliedCoupon(ctx, userID)
}

func (s *Service) appliedCoupon(ctx context.Context, userID uint) *CouponApplication {
	var applied CouponApplication
	if err := s.cache.GetJSON(ctx, s.couponKey(userID), &applied); err != nil {
		return nil
	}
	if !applied.Applied {
		return nil
	}
	return &applied
}

func (s *Service) couponKey(userID uint) string {
	return fmt.Sprintf("applied_coupon:%d", userID)
}
