// internal/domain/wishlist/service.go
package wishlist

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Service is the authoritative wishlist store backed by Postgres
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
	}
}

// Fetch returns all wishlist entries for a user
func (s *Service) Fetch(userID uint) ([]Entry, error) {
	var items []Item
	if err := s.db.Where("user_id = ?", userID).Order("added_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = Entry{
			ProductID: item.ProductID,
			AddedAt:   item.AddedAt,
		}
	}
	return entries, nil
}

// Add inserts a wishlist row. Adding a product that is already present is
// a no-op so toggling stays idempotent on the add side.
func (s *Service) Add(userID, productID uint) error {
	var product catalog.Product
	if err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		return fmt.Errorf("product not found or inactive")
	}

	var existing Item
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to look up wishlist item: %w", err)
	}

	item := Item{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now().UTC(),
	}
	return s.db.Create(&item).Error
}

// Remove deletes a wishlist row
func (s *Service) Remove(userID, productID uint) error {
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&Item{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item not found in wishlist")
	}
	return nil
}

// Clear removes all wishlist rows for a user
func (s *Service) Clear(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&Item{}).Error
}

// Contains checks if a product is in the user's wishlist
func (s *Service) Contains(userID, productID uint) (bool, error) {
	var count int64
	err := s.db.Model(&Item{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// MoveToCart adds a wishlist product to the cart and removes it from the
// wishlist.
func (s *Service) MoveToCart(userID, productID uint, size, color string, quantity int) error {
	inWishlist, err := s.Contains(userID, productID)
	if err != nil {
		return err
	}
	if !inWishlist {
		return fmt.Errorf("item not found in wishlist")
	}

	var product catalog.Product
	if err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		return fmt.Errorf("product not found or inactive")
	}

	key := cart.ItemKey{ProductID: productID, Size: size, Color: color}
	if err := s.cartService.Add(userID, key, quantity, product.Price); err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}

	return s.Remove(userID, productID)
}
