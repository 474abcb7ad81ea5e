// internal/interfaces/http/handlers/returns.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/returns"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"gorm.io/gorm"
)

// ReturnsHandler handles return/replace request endpoints. Customers
// submit, view, and cancel requests; all other transitions are admin
// actions.
type ReturnsHandler struct {
	returnsService *returns.Service
	config         *config.Config
}

// NewReturnsHandler creates a new returns handler
func NewReturnsHandler(db *gorm.DB, cfg *config.Config) *ReturnsHandler {
	inventoryService := inventory.NewService(db)
	notifier := email.NewEmailService(cfg)
	return &ReturnsHandler{
		returnsService: returns.NewService(db, cfg, inventoryService, notifier),
		config:         cfg,
	}
}

// Submit handles POST /returns
func (h *ReturnsHandler) Submit(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req returns.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	request, err := h.returnsService.Submit(userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Request submitted successfully",
		"data":    request,
	})
}

// GetRequests handles GET /returns
func (h *ReturnsHandler) GetRequests(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	requests, err := h.returnsService.GetRequests(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve requests",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Requests retrieved successfully",
		"data":    requests,
	})
}

// GetRequest handles GET /returns/:id
func (h *ReturnsHandler) GetRequest(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID",
		})
		return
	}

	request, err := h.returnsService.GetRequest(userID, requestID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request retrieved successfully",
		"data":    request,
	})
}

// Cancel handles POST /returns/:id/cancel
func (h *ReturnsHandler) Cancel(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID",
		})
		return
	}

	request, err := h.returnsService.Cancel(userID, requestID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Request cancelled successfully",
		"data":    request,
	})
}

// Admin endpoints

// AdminGetRequests handles GET /admin/returns
func (h *ReturnsHandler) AdminGetRequests(c *gin.Context) {
	status := returns.StatusValue(c.Query("status"))

	requests, err := h.returnsService.AdminGetRequests(status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Requests retrieved successfully",
		"data":    requests,
	})
}

// Approve handles POST /admin/returns/:id/approve
func (h *ReturnsHandler) Approve(c *gin.Context) {
	h.adminTransition(c, func(actorID, requestID uint, body adminActionRequest) (*returns.Request, error) {
		return h.returnsService.Approve(actorID, requestID, body.Note)
	}, "Request approved successfully")
}

// Reject handles POST /admin/returns/:id/reject
func (h *ReturnsHandler) Reject(c *gin.Context) {
	h.adminTransition(c, func(actorID, requestID uint, body adminActionRequest) (*returns.Request, error) {
		return h.returnsService.Reject(actorID, requestID, body.Reason)
	}, "Request rejected")
}

// SchedulePickup handles POST /admin/returns/:id/schedule-pickup
func (h *ReturnsHandler) SchedulePickup(c *gin.Context) {
	h.adminTransition(c, func(actorID, requestID uint, body adminActionRequest) (*returns.Request, error) {
		if body.PickupAt == nil {
			return nil, errPickupTimeRequired
		}
		return h.returnsService.SchedulePickup(actorID, requestID, *body.PickupAt, body.Note)
	}, "Pickup scheduled successfully")
}

// MarkPickedUp handles POST /admin/returns/:id/picked-up
func (h *ReturnsHandler) MarkPickedUp(c *gin.Context) {
	h.adminTransition(c, func(actorID, requestID uint, body adminActionRequest) (*returns.Request, error) {
		return h.returnsService.MarkPickedUp(actorID, requestID, body.Note)
	}, "Pickup recorded successfully")
}

// BeginInspection handles POST /admin/returns/:id/inspect
func (h *ReturnsHandler) BeginInspection(c *gin.Context) {
	h.adminTransition(c, func(actorID, requestID uint, body adminActionRequest) (*returns.Request, error) {
		return h.returnsService.BeginInspection(actorID, requestID, body.Note)
	}, "Inspection started")
}

// Complete handles POST /admin/returns/:id/complete
func (h *ReturnsHandler) Complete(c *gin.Context) {
	h.adminTransition(c, func(actorID, requestID uint, body adminActionRequest) (*returns.Request, error) {
		return h.returnsService.Complete(actorID, requestID, &returns.CompleteParams{
			RefundAmount: body.RefundAmount,
			Note:         body.Note,
		})
	}, "Request completed successfully")
}

// Private helper methods

type adminActionRequest struct {
	Note         string     `json:"note"`
	Reason       string     `json:"reason"`
	PickupAt     *time.Time `json:"pickup_at"`
	RefundAmount *int64     `json:"refund_amount"`
}

var errPickupTimeRequired = errors.New("pickup_at is required")

func (h *ReturnsHandler) adminTransition(c *gin.Context, action func(actorID, requestID uint, body adminActionRequest) (*returns.Request, error), message string) {
	actorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	requestID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request ID",
		})
		return
	}

	var body adminActionRequest
	_ = c.ShouldBindJSON(&body)

	request, err := action(actorID, requestID, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    request,
	})
}
