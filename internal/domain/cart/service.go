// internal/domain/cart/service.go
package cart

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Service is the authoritative cart store backed by Postgres. Session
// stores write through to it and resynchronize from it.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Fetch returns all cart lines for a user
func (s *Service) Fetch(userID uint) ([]Line, error) {
	var items []Item
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	lines := make([]Line, len(items))
	for i, item := range items {
		lines[i] = Line{
			ProductID: item.ProductID,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			Price:     item.Price,
			AddedAt:   item.CreatedAt,
		}
	}
	return lines, nil
}

// Add inserts a cart row, or accumulates quantity when a row with the same
// key already exists.
func (s *Service) Add(userID uint, key ItemKey, quantity int, price int64) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	// Validate product exists, is active and has stock for the new total
	var product catalog.Product
	if err := s.db.Where("id = ? AND is_active = ?", key.ProductID, true).First(&product).Error; err != nil {
		return fmt.Errorf("product not found or inactive")
	}

	var existing Item
	result := s.db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		userID, key.ProductID, key.Size, key.Color).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		if !product.InStock(quantity) {
			return fmt.Errorf("insufficient stock. Available: %d", product.Quantity)
		}
		item := Item{
			UserID:    userID,
			ProductID: key.ProductID,
			Size:      key.Size,
			Color:     key.Color,
			Quantity:  quantity,
			Price:     price,
		}
		return s.db.Create(&item).Error
	} else if result.Error != nil {
		return fmt.Errorf("failed to look up cart item: %w", result.Error)
	}

	newQuantity := existing.Quantity + quantity
	if !product.InStock(newQuantity) {
		return fmt.Errorf("insufficient stock for total quantity. Available: %d", product.Quantity)
	}

	existing.Quantity = newQuantity
	existing.Price = price // Refresh price in case it changed
	return s.db.Save(&existing).Error
}

// SetQuantity updates a line's quantity. Zero or below removes the line.
func (s *Service) SetQuantity(userID uint, key ItemKey, quantity int) error {
	if quantity <= 0 {
		return s.Remove(userID, key)
	}

	var product catalog.Product
	if err := s.db.Where("id = ?", key.ProductID).First(&product).Error; err != nil {
		return fmt.Errorf("product not found")
	}
	if !product.InStock(quantity) {
		return fmt.Errorf("insufficient stock. Available: %d", product.Quantity)
	}

	result := s.db.Model(&Item{}).
		Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
			userID, key.ProductID, key.Size, key.Color).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item not found in cart")
	}
	return nil
}

// Remove deletes a cart line
func (s *Service) Remove(userID uint, key ItemKey) error {
	result := s.db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		userID, key.ProductID, key.Size, key.Color).Delete(&Item{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item not found in cart")
	}
	return nil
}

// Clear removes all cart lines for a user
func (s *Service) Clear(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&Item{}).Error
}

// MergeLines folds guest session lines into a user's cart at login,
// accumulating quantities on key collisions.
func (s *Service) MergeLines(userID uint, lines []Line) error {
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if err := s.Add(userID, line.Key(), line.Quantity, line.Price); err != nil {
			// Skip lines that no longer validate (product gone, out of
			// stock); the remaining lines still merge.
			continue
		}
	}
	return nil
}
