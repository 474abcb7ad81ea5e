// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"

	"gorm.io/gorm"
)

// Item represents a wishlist row for an authenticated user, unique per
// (user, product).
type Item struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	AddedAt   time.Time      `json:"added_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "wishlist_items"
}

// Entry is one item of the session mirror
type Entry struct {
	ProductID uint      `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// Mirror is the session-scoped wishlist state persisted as a single JSON
// blob in Redis, keyed by store name and session.
type Mirror struct {
	SessionID string    `json:"session_id"`
	OwnerID   *uint     `json:"owner_id,omitempty"`
	Entries   []Entry   `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
