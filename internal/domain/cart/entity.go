// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"
)

// Item represents a cart row persisted for an authenticated user. Rows are
// unique per (user, product, size, color); adding the same selection again
// accumulates quantity instead of inserting a second row.
type Item struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Size      string         `gorm:"size:50" json:"size"`
	Color     string         `gorm:"size:50" json:"color"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	Price     int64          `gorm:"not null" json:"price"` // Unit price in cents at time of adding
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "cart_items"
}

// ItemKey identifies a cart line. Two adds with equal keys target the same
// line.
type ItemKey struct {
	ProductID uint   `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Line is one entry of the session mirror
type Line struct {
	ProductID uint      `json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	AddedAt   time.Time `json:"added_at"`
}

// Key returns the line's identifying key
func (l Line) Key() ItemKey {
	return ItemKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

// Mirror is the session-scoped cart state persisted as a single JSON blob
// in Redis. It is a disposable cache of the database rows for authenticated
// sessions and the only state a guest session has.
type Mirror struct {
	SessionID string    `json:"session_id"`
	OwnerID   *uint     `json:"owner_id,omitempty"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique lines
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`      // In cents
}

// CalculateTotals sums the given lines
func CalculateTotals(lines []Line) Totals {
	var totals Totals
	totals.ItemCount = len(lines)
	for _, line := range lines {
		totals.TotalQuantity += line.Quantity
		totals.SubTotal += line.Price * int64(line.Quantity)
	}
	return totals
}
