// internal/domain/catalog/review_entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Review represents a product review. One row exists per (user, product)
// pair; resubmission updates the row in place.
type Review struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ProductID        uint           `gorm:"not null;index;uniqueIndex:idx_reviews_user_product" json:"product_id"`
	UserID           uint           `gorm:"not null;index;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	OrderID          *uint          `gorm:"index" json:"order_id,omitempty"`
	Rating           int            `gorm:"not null" json:"rating"` // 1-5
	Title            string         `gorm:"size:255" json:"title"`
	Comment          string         `gorm:"type:text" json:"comment"`
	Images           string         `gorm:"type:text" json:"images"` // Comma-separated image URLs
	VerifiedPurchase bool           `gorm:"default:false" json:"verified_purchase"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}
