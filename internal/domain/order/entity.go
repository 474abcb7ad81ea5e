// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// ItemStatus represents the status of a single order item
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusShipped   ItemStatus = "shipped"
	ItemStatusDelivered ItemStatus = "delivered"
	ItemStatusReturned  ItemStatus = "returned"
	ItemStatusReplaced  ItemStatus = "replaced"
	ItemStatusCancelled ItemStatus = "cancelled"
)

// Order represents the order entity. Orders are immutable once created
// except for status, which only seller/admin actions advance.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Email       string `gorm:"not null;size:255" json:"email"`
	Status      Status `gorm:"not null;default:'pending'" json:"status"`

	// Financial Information (in cents)
	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"`
	DiscountAmount int64 `gorm:"default:0" json:"discount_amount"`
	DeliveryCharge int64 `gorm:"default:0" json:"delivery_charge"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	// Address snapshot taken at order time
	ShippingAddress Address `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	Currency      string `gorm:"size:3;default:'USD'" json:"currency"`
	PaymentMethod string `gorm:"size:50" json:"payment_method"`
	CouponCode    string `gorm:"size:50" json:"coupon_code"`
	Notes         string `gorm:"type:text" json:"notes"`

	// Set when the order is a replacement issued by a completed
	// replace request.
	ReplacesOrderItemID *uint `gorm:"index" json:"replaces_order_item_id,omitempty"`

	// Timestamps
	DeliveredAt *time.Time     `json:"delivered_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents one line of an order. Product name, brand, image
// and price are snapshotted at order time, not live references.
type OrderItem struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OrderID    uint       `gorm:"not null;index" json:"order_id"`
	ProductID  uint       `gorm:"not null;index" json:"product_id"`
	SKU        string     `gorm:"size:100" json:"sku"`
	Name       string     `gorm:"not null;size:255" json:"name"`
	BrandName  string     `gorm:"size:255" json:"brand_name"`
	ImageURL   string     `gorm:"size:500" json:"image_url"`
	Size       string     `gorm:"size:50" json:"size"`
	Color      string     `gorm:"size:50" json:"color"`
	Quantity   int        `gorm:"not null" json:"quantity"`
	Price      int64      `gorm:"not null" json:"price"`       // Unit price in cents
	TotalPrice int64      `gorm:"not null" json:"total_price"` // Quantity * Price
	Status     ItemStatus `gorm:"not null;default:'pending'" json:"status"`

	// Delivery stamps the eligibility windows for returns/replacements
	DeliveredAt         *time.Time `json:"delivered_at"`
	ReturnWindowEndsAt  *time.Time `json:"return_window_ends_at"`
	ReplaceWindowEndsAt *time.Time `json:"replace_window_ends_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusHistory tracks order status changes as an append-only log
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Address represents a shipping address snapshot (embedded in Order)
type Address struct {
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:2" json:"country"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// GenerateOrderNumber generates a unique order number
func GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXXXXX
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

// CanBeCancelled checks if the order can still be cancelled by the customer
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// MarkDelivered stamps the item delivered and computes its eligibility
// windows from the delivery time.
func (i *OrderItem) MarkDelivered(at time.Time, returnWindow, replaceWindow time.Duration) {
	i.Status = ItemStatusDelivered
	i.DeliveredAt = &at

	returnEnd := at.Add(returnWindow)
	replaceEnd := at.Add(replaceWindow)
	i.ReturnWindowEndsAt = &returnEnd
	i.ReplaceWindowEndsAt = &replaceEnd
}
