// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Product represents the product entity
type Product struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SKU             string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name            string         `gorm:"not null;size:255" json:"name"`
	Slug            string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description     string         `gorm:"type:text" json:"description"`
	Price           int64          `gorm:"not null" json:"price"` // Price in cents
	ComparePrice    int64          `json:"compare_price"`         // Original price for discounts
	BrandID         *uint          `gorm:"index" json:"brand_id"`
	Sizes           string         `gorm:"size:255" json:"sizes"`  // Comma-separated size options
	Colors          string         `gorm:"size:255" json:"colors"` // Comma-separated color options
	IsActive        bool           `gorm:"default:true" json:"is_active"`
	IsFeatured      bool           `gorm:"default:false" json:"is_featured"`
	TrackQuantity   bool           `gorm:"default:true" json:"track_quantity"`
	Quantity        int            `gorm:"default:0" json:"quantity"`
	RatingAverage   float64        `gorm:"default:0" json:"rating_average"`
	RatingCount     int            `gorm:"default:0" json:"rating_count"`
	Tags            string         `gorm:"size:500" json:"tags"` // Comma-separated tags
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Brand   *Brand         `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"brand,omitempty"`
	Images  []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
	Reviews []Review       `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews,omitempty"`
}

// Brand represents product brands
type Brand struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	Logo        string         `gorm:"size:500" json:"logo"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:BrandID" json:"products,omitempty"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Product) TableName() string      { return "products" }
func (Brand) TableName() string        { return "brands" }
func (ProductImage) TableName() string { return "product_images" }

// PrimaryImageURL returns the primary image URL, or the first image if none
// is flagged primary.
func (p *Product) PrimaryImageURL() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// BrandName returns the brand name or empty string when unset
func (p *Product) BrandName() string {
	if p.Brand != nil {
		return p.Brand.Name
	}
	return ""
}

// InStock reports whether the requested quantity can be fulfilled
func (p *Product) InStock(quantity int) bool {
	if !p.TrackQuantity {
		return true
	}
	return p.Quantity >= quantity
}
