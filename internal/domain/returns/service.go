// internal/domain/returns/service.go
package returns

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Notifier delivers customer-visible workflow updates. Implemented by the
// email service; nil disables notifications.
type Notifier interface {
	SendReturnStatusUpdate(ctx context.Context, toEmail string, requestID uint, requestType, status, note string) error
}

// Service handles the return/replace request workflow. All transitions go
// through the transition table; there is no optimistic path here because
// every advance after creation is seller/admin-driven and the client just
// reflects fetched state.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	inventory *inventory.Service
	notifier  Notifier
}

// NewService creates a new returns service
func NewService(db *gorm.DB, cfg *config.Config, inventoryService *inventory.Service, notifier Notifier) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		inventory: inventoryService,
		notifier:  notifier,
	}
}

// SubmitRequest represents a customer's return/replace submission
type SubmitRequest struct {
	OrderItemID uint          `json:"order_item_id" binding:"required"`
	Type        RequestType   `json:"type" binding:"required,oneof=return replace"`
	Reason      RequestReason `json:"reason" binding:"required"`
	Quantity    int           `json:"quantity"`
	Description string        `json:"description"`
	Images      string        `json:"images"`
}

// CompleteParams carries the resolution for a completing request
type CompleteParams struct {
	RefundAmount *int64 `json:"refund_amount,omitempty"` // Required for returns, in cents
	Note         string `json:"note"`
}

// Submit creates a return/replace request for an order item the user owns.
// The item must be delivered, inside the eligibility window for the
// request type, and free of other open requests.
func (s *Service) Submit(userID uint, req *SubmitRequest) (*Request, error) {
	var item order.OrderItem
	if err := s.db.Where("id = ?", req.OrderItemID).First(&item).Error; err != nil {
		return nil, fmt.Errorf("order item not found")
	}

	var owningOrder order.Order
	if err := s.db.Where("id = ? AND user_id = ?", item.OrderID, userID).First(&owningOrder).Error; err != nil {
		return nil, fmt.Errorf("order item not found")
	}

	var openCount int64
	if err := s.db.Model(&Request{}).
		Where("order_item_id = ? AND status NOT IN ?", req.OrderItemID,
			[]StatusValue{StatusCompleted, StatusRejected, StatusCancelled}).
		Count(&openCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}

	if err := CheckEligibility(&item, req.Type, time.Now().UTC(), openCount > 0); err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = item.Quantity
	}
	if quantity < 1 || quantity > item.Quantity {
		return nil, fmt.Errorf("quantity must be between 1 and %d", item.Quantity)
	}

	request := Request{
		OrderID:     item.OrderID,
		OrderItemID: item.ID,
		UserID:      userID,
		Type:        req.Type,
		Reason:      req.Reason,
		Status:      StatusRequested,
		Quantity:    quantity,
		Description: req.Description,
		Images:      req.Images,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		return s.appendTimeline(tx, request.ID, StatusRequested,
			fmt.Sprintf("%s requested by customer", request.Type), userID, true)
	})
	if err != nil {
		return nil, err
	}

	return s.getRequest(request.ID)
}

// Cancel withdraws a request. Customer-initiated and permitted only while
// the request is still in requested state.
func (s *Service) Cancel(userID, requestID uint) (*Request, error) {
	request, err := s.ownedRequest(userID, requestID)
	if err != nil {
		return nil, err
	}

	return s.transition(request, ActionCancel, userID, "cancelled by customer", true, nil)
}

// Approve accepts a requested return/replace. Seller/admin only.
func (s *Service) Approve(actorID, requestID uint, note string) (*Request, error) {
	request, err := s.anyRequest(requestID)
	if err != nil {
		return nil, err
	}
	if note == "" {
		note = "request approved"
	}
	return s.transition(request, ActionApprove, actorID, note, true, nil)
}

// Reject declines a request with a mandatory reason. Seller/admin only.
func (s *Service) Reject(actorID, requestID uint, reason string) (*Request, error) {
	if reason == "" {
		return nil, fmt.Errorf("rejection requires a reason")
	}

	request, err := s.anyRequest(requestID)
	if err != nil {
		return nil, err
	}

	return s.transition(request, ActionReject, actorID, reason, true, func(tx *gorm.DB, r *Request) error {
		return tx.Model(&Request{}).Where("id = ?", r.ID).
			Update("rejection_reason", reason).Error
	})
}

// SchedulePickup books a pickup slot for an approved request
func (s *Service) SchedulePickup(actorID, requestID uint, pickupAt time.Time, note string) (*Request, error) {
	if pickupAt.Before(time.Now().UTC()) {
		return nil, fmt.Errorf("pickup time must be in the future")
	}

	request, err := s.anyRequest(requestID)
	if err != nil {
		return nil, err
	}

	if note == "" {
		note = fmt.Sprintf("pickup scheduled for %s", pickupAt.Format(time.RFC3339))
	}
	return s.transition(request, ActionSchedulePickup, actorID, note, true, func(tx *gorm.DB, r *Request) error {
		return tx.Model(&Request{}).Where("id = ?", r.ID).
			Update("pickup_scheduled_for", pickupAt).Error
	})
}

// MarkPickedUp records that the courier collected the item
func (s *Service) MarkPickedUp(actorID, requestID uint, note string) (*Request, error) {
	request, err := s.anyRequest(requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if note == "" {
		note = "item picked up"
	}
	return s.transition(request, ActionMarkPickedUp, actorID, note, true, func(tx *gorm.DB, r *Request) error {
		return tx.Model(&Request{}).Where("id = ?", r.ID).
			Update("picked_up_at", now).Error
	})
}

// BeginInspection moves a picked-up item into inspection. Inspection notes
// are internal, not customer-visible.
func (s *Service) BeginInspection(actorID, requestID uint, notes string) (*Request, error) {
	request, err := s.anyRequest(requestID)
	if err != nil {
		return nil, err
	}

	return s.transition(request, ActionBeginInspection, actorID, notes, false, func(tx *gorm.DB, r *Request) error {
		if notes == "" {
			return nil
		}
		return tx.Model(&Request{}).Where("id = ?", r.ID).
			Update("inspection_notes", notes).Error
	})
}

// Complete resolves a request under inspection. Returns require a refund
// amount and restock the originating product; replacements create a
// zero-charge replacement order. Either way the originating order item's
// status is marked accordingly.
func (s *Service) Complete(actorID, requestID uint, params *CompleteParams) (*Request, error) {
	request, err := s.anyRequest(requestID)
	if err != nil {
		return nil, err
	}

	resolution, err := ResolveCompletion(request.Type, request.Quantity, params)
	if err != nil {
		return nil, err
	}

	note := params.Note
	if note == "" {
		note = fmt.Sprintf("%s completed", request.Type)
	}

	return s.transition(request, ActionComplete, actorID, note, true, func(tx *gorm.DB, r *Request) error {
		var item order.OrderItem
		if err := tx.Where("id = ?", r.OrderItemID).First(&item).Error; err != nil {
			return fmt.Errorf("order item not found: %w", err)
		}

		if resolution.CreateReplacement {
			replacement, err := s.createReplacementOrder(tx, r, &item)
			if err != nil {
				return err
			}
			if err := tx.Model(&Request{}).Where("id = ?", r.ID).
				Update("replacement_order_id", replacement.ID).Error; err != nil {
				return fmt.Errorf("failed to link replacement order: %w", err)
			}
		} else {
			if err := tx.Model(&Request{}).Where("id = ?", r.ID).
				Update("refund_amount", resolution.RefundAmount).Error; err != nil {
				return fmt.Errorf("failed to record refund: %w", err)
			}
			if err := s.inventory.RecordReturn(tx, item.ProductID, resolution.RestockQuantity, r.ID, actorID,
				fmt.Sprintf("restock from return request %d", r.ID)); err != nil {
				return err
			}
		}

		return tx.Model(&order.OrderItem{}).Where("id = ?", item.ID).
			Update("status", resolution.ItemStatus).Error
	})
}

// GetRequests retrieves the user's requests, newest first, with only the
// customer-visible timeline entries.
func (s *Service) GetRequests(userID uint) ([]Request, error) {
	var requests []Request
	err := s.db.Preload("Timeline", "customer_visible = ?", true).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve requests: %w", err)
	}
	return requests, nil
}

// GetRequest retrieves one of the user's requests with the customer-visible
// timeline.
func (s *Service) GetRequest(userID, requestID uint) (*Request, error) {
	var request Request
	err := s.db.Preload("Timeline", "customer_visible = ?", true).
		Where("id = ? AND user_id = ?", requestID, userID).
		First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("request not found")
		}
		return nil, fmt.Errorf("failed to retrieve request: %w", err)
	}
	return &request, nil
}

// AdminGetRequests retrieves requests across users, optionally filtered by
// status, with the full timeline including internal entries.
func (s *Service) AdminGetRequests(status StatusValue) ([]Request, error) {
	query := s.db.Preload("Timeline").Order("created_at desc")
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status %q", status)
		}
		query = query.Where("status = ?", status)
	}

	var requests []Request
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve requests: %w", err)
	}
	return requests, nil
}

// Private helper methods

// transition validates the action against the transition table, applies
// the status change plus any extra mutation in one transaction, appends
// the timeline entry, and fires the notification afterwards.
func (s *Service) transition(request *Request, action Action, actorID uint, note string, customerVisible bool, extra func(*gorm.DB, *Request) error) (*Request, error) {
	next, err := Next(request.Status, action)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Request{}).Where("id = ?", request.ID).
			Update("status", next).Error; err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		if extra != nil {
			if err := extra(tx, request); err != nil {
				return err
			}
		}

		return s.appendTimeline(tx, request.ID, next, note, actorID, customerVisible)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.getRequest(request.ID)
	if err != nil {
		return nil, err
	}

	s.notify(updated, note, customerVisible)
	return updated, nil
}

func (s *Service) appendTimeline(tx *gorm.DB, requestID uint, status StatusValue, note string, actorID uint, customerVisible bool) error {
	entry := TimelineEntry{
		RequestID:       requestID,
		Status:          status,
		Note:            note,
		ActorID:         actorID,
		CustomerVisible: customerVisible,
		CreatedAt:       time.Now().UTC(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append timeline entry: %w", err)
	}
	return nil
}

// createReplacementOrder issues a zero-charge order for the replaced item,
// snapshotting the original item's fields.
func (s *Service) createReplacementOrder(tx *gorm.DB, request *Request, item *order.OrderItem) (*order.Order, error) {
	var original order.Order
	if err := tx.Where("id = ?", request.OrderID).First(&original).Error; err != nil {
		return nil, fmt.Errorf("original order not found: %w", err)
	}

	replacement, line := buildReplacementOrder(&original, item, request.ID, request.Quantity, time.Now())
	if err := tx.Create(&replacement).Error; err != nil {
		return nil, fmt.Errorf("failed to create replacement order: %w", err)
	}

	line.OrderID = replacement.ID
	if err := tx.Create(&line).Error; err != nil {
		return nil, fmt.Errorf("failed to create replacement order item: %w", err)
	}

	history := order.StatusHistory{
		OrderID:   replacement.ID,
		Status:    order.StatusPending,
		Comment:   fmt.Sprintf("replacement for request %d", request.ID),
		CreatedBy: request.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to record replacement history: %w", err)
	}

	return &replacement, nil
}

func (s *Service) notify(request *Request, note string, customerVisible bool) {
	if s.notifier == nil || !customerVisible {
		return
	}

	var email struct {
		Email string
	}
	if err := s.db.Table("users").Select("email").Where("id = ?", request.UserID).Scan(&email).Error; err != nil || email.Email == "" {
		return
	}

	// Notification failures never fail the transition
	_ = s.notifier.SendReturnStatusUpdate(context.Background(), email.Email,
		request.ID, string(request.Type), string(request.Status), note)
}

func (s *Service) ownedRequest(userID, requestID uint) (*Request, error) {
	var request Request
	err := s.db.Where("id = ? AND user_id = ?", requestID, userID).First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("request not found")
		}
		return nil, fmt.Errorf("failed to retrieve request: %w", err)
	}
	return &request, nil
}

func (s *Service) anyRequest(requestID uint) (*Request, error) {
	var request Request
	err := s.db.Where("id = ?", requestID).First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("request not found")
		}
		return nil, fmt.Errorf("failed to retrieve request: %w", err)
	}
	return &request, nil
}

func (s *Service) getRequest(requestID uint) (*Request, error) {
	var request Request
	err := s.db.Preload("Timeline").Where("id = ?", requestID).First(&request).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload request: %w", err)
	}
	return &request, nil
}
