// internal/domain/inventory/service.go
package inventory

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles stock movements. Mutating methods take the caller's
// transaction so stock changes commit or roll back with the operation
// that caused them.
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// RecordSale decrements product stock for an order item
func (s *Service) RecordSale(tx *gorm.DB, productID uint, quantity int, orderID, actorID uint) error {
	return s.move(tx, productID, -quantity, MovementTypeOutbound, ReasonSale, "order", orderID, actorID, "")
}

// RecordReturn increments product stock when a return request completes
func (s *Service) RecordReturn(tx *gorm.DB, productID uint, quantity int, requestID, actorID uint, notes string) error {
	return s.move(tx, productID, quantity, MovementTypeInbound, ReasonReturn, "return_request", requestID, actorID, notes)
}

// Adjust applies a manual stock correction
func (s *Service) Adjust(tx *gorm.DB, productID uint, delta int, actorID uint, notes string) error {
	movementType := MovementTypeInbound
	if delta < 0 {
		movementType = MovementTypeOutbound
	}
	return s.move(tx, productID, delta, movementType, ReasonAdjustment, "", 0, actorID, notes)
}

// GetMovements retrieves the movement history for a product, newest first
func (s *Service) GetMovements(productID uint, limit int) ([]StockMovement, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var movements []StockMovement
	err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}

func (s *Service) move(tx *gorm.DB, productID uint, delta int, movementType MovementType, reason MovementReason, refType string, refID, actorID uint, notes string) error {
	if delta == 0 {
		return fmt.Errorf("stock movement quantity cannot be zero")
	}

	var product catalog.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", productID).First(&product).Error; err != nil {
		return fmt.Errorf("product not found: %w", err)
	}

	newQuantity := product.Quantity + delta
	if newQuantity < 0 {
		return fmt.Errorf("insufficient stock for product %d: have %d, need %d", productID, product.Quantity, -delta)
	}

	if err := tx.Model(&catalog.Product{}).Where("id = ?", productID).
		Update("quantity", newQuantity).Error; err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}

	quantity := delta
	if quantity < 0 {
		quantity = -quantity
	}

	movement := StockMovement{
		ProductID:        productID,
		MovementType:     movementType,
		Reason:           reason,
		Quantity:         quantity,
		PreviousQuantity: product.Quantity,
		NewQuantity:      newQuantity,
		ReferenceType:    refType,
		ReferenceID:      refID,
		Notes:            notes,
		CreatedBy:        actorID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}

	return nil
}
