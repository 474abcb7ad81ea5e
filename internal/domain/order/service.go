// internal/domain/order/service.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles order business logic. Order creation lives in the
// checkout domain; this service covers reads, cancellation and the
// seller/admin status lifecycle.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    Status `form:"status"`
	SortOrder string `form:"sort_order,default=desc"`
}

// ListResponse represents orders with pagination
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// UpdateStatusRequest represents a seller/admin status change
type UpdateStatusRequest struct {
	Status  Status `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// GetOrders retrieves a user's orders with pagination
func (s *Service) GetOrders(userID uint, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{}).Where("user_id = ?", userID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	sortOrder := "desc"
	if req.SortOrder == "asc" {
		sortOrder = "asc"
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	err := query.Preload("Items").
		Order("created_at " + sortOrder).
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves a single order owned by the user
func (s *Service) GetOrder(userID, orderID uint) (*Order, error) {
	var order Order
	err := s.db.Preload("Items").Preload("StatusHistory").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// GetOrderItem retrieves a single order item together with its owning order
func (s *Service) GetOrderItem(userID, orderItemID uint) (*OrderItem, *Order, error) {
	var item OrderItem
	if err := s.db.Where("id = ?", orderItemID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("order item not found")
		}
		return nil, nil, fmt.Errorf("failed to retrieve order item: %w", err)
	}

	var order Order
	if err := s.db.Where("id = ? AND user_id = ?", item.OrderID, userID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("order item not found")
		}
		return nil, nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	return &item, &order, nil
}

// CancelOrder cancels an order that has not shipped yet
func (s *Service) CancelOrder(userID, orderID uint, reason string) (*Order, error) {
	order, err := s.GetOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanBeCancelled() {
		return nil, fmt.Errorf("order cannot be cancelled in status %q", order.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Order{}).Where("id = ?", orderID).
			Update("status", StatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		if err := tx.Model(&OrderItem{}).Where("order_id = ?", orderID).
			Update("status", ItemStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel order items: %w", err)
		}
		return s.appendHistory(tx, orderID, StatusCancelled, reason, userID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(userID, orderID)
}

// UpdateStatus advances an order through its lifecycle. Seller/admin only.
// Marking the order delivered stamps every open item with its delivery
// time and eligibility windows.
func (s *Service) UpdateStatus(orderID uint, req *UpdateStatusRequest, actorID uint) (*Order, error) {
	var order Order
	if err := s.db.Preload("Items").Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if order.Status == StatusCancelled {
		return nil, fmt.Errorf("cannot change status of a cancelled order")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": req.Status}

		if req.Status == StatusDelivered {
			now := time.Now().UTC()
			updates["delivered_at"] = now

			for i := range order.Items {
				item := &order.Items[i]
				if item.Status != ItemStatusPending && item.Status != ItemStatusShipped {
					continue
				}
				item.MarkDelivered(now, s.config.ReturnWindow(), s.config.ReplaceWindow())
				if err := tx.Model(&OrderItem{}).Where("id = ?", item.ID).
					Updates(map[string]interface{}{
						"status":                 item.Status,
						"delivered_at":           item.DeliveredAt,
						"return_window_ends_at":  item.ReturnWindowEndsAt,
						"replace_window_ends_at": item.ReplaceWindowEndsAt,
					}).Error; err != nil {
					return fmt.Errorf("failed to mark item delivered: %w", err)
				}
			}
		}

		if err := tx.Model(&Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		return s.appendHistory(tx, orderID, req.Status, req.Comment, actorID)
	})
	if err != nil {
		return nil, err
	}

	var updated Order
	if err := s.db.Preload("Items").Preload("StatusHistory").Where("id = ?", orderID).First(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return &updated, nil
}

func (s *Service) appendHistory(tx *gorm.DB, orderID uint, status Status, comment string, actorID uint) error {
	history := StatusHistory{
		OrderID:   orderID,
		Status:    status,
		Comment:   comment,
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}
	return nil
}
