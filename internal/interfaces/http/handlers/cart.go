// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints. Each request operates through a
// session store: guests get a local-only mirror, authenticated users get
// a write-through store backed by their cart rows.
type CartHandler struct {
	cartService    *cart.Service
	catalogService *catalog.Service
	cache          *redis.Client
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cache *redis.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService:    cart.NewService(db, cfg),
		catalogService: catalog.NewService(db, cfg),
		cache:          cache,
		config:         cfg,
	}
}

// AddItemRequest represents the add-to-cart payload
type AddItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents the quantity update payload. Quantity zero
// removes the line.
type UpdateItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	h.respondWithCart(c, http.StatusOK, "Cart retrieved successfully", store)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalogService.GetProduct(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	if err := h.catalogService.ValidateSelection(product, req.Size, req.Color); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if !product.InStock(req.Quantity) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Insufficient stock",
		})
		return
	}

	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	key := cart.ItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	if err := store.Add(c.Request.Context(), key, req.Quantity, product.Price); err != nil {
		h.respondWithCart(c, http.StatusConflict, "Item could not be added, cart restored", store)
		return
	}

	h.respondWithCart(c, http.StatusCreated, "Item added to cart successfully", store)
}

// UpdateItem handles PUT /cart/items
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	key := cart.ItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	if err := store.UpdateQuantity(c.Request.Context(), key, *req.Quantity); err != nil {
		status := http.StatusConflict
		if store.LastSyncError() == nil {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.respondWithCart(c, http.StatusOK, "Cart updated successfully", store)
}

// RemoveItem handles DELETE /cart/items
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req struct {
		ProductID uint   `json:"product_id" binding:"required"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	key := cart.ItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	if err := store.Remove(c.Request.Context(), key); err != nil {
		status := http.StatusConflict
		if store.LastSyncError() == nil {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.respondWithCart(c, http.StatusOK, "Item removed from cart successfully", store)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	if err := store.Clear(c.Request.Context()); err != nil {
		h.respondWithCart(c, http.StatusConflict, "Cart could not be cleared, state restored", store)
		return
	}

	h.respondWithCart(c, http.StatusOK, "Cart cleared successfully", store)
}

// Resync handles POST /cart/resync. The client calls this on app
// foreground to replace the mirror with the authoritative cart.
func (h *CartHandler) Resync(c *gin.Context) {
	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	if err := store.Resync(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to resync cart",
		})
		return
	}

	h.respondWithCart(c, http.StatusOK, "Cart resynced successfully", store)
}

// Private helper methods

// newStore builds a session cart store for this request. Requests without
// a valid token get a local-only guest store.
func (h *CartHandler) newStore(c *gin.Context) *cart.Store {
	sessionID := middleware.GetSessionIDFromContext(c)

	var boundUser *uint
	var remote cart.Remote
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		boundUser = &userID
		remote = h.cartService
	}

	return cart.NewStore(sessionID, boundUser, remote, h.cache, h.config.Store.SessionTTL)
}

func (h *CartHandler) loadStore(c *gin.Context) (*cart.Store, error) {
	store := h.newStore(c)
	if err := store.Load(c.Request.Context()); err != nil {
		return nil, err
	}
	return store, nil
}

func (h *CartHandler) respondWithCart(c *gin.Context, status int, message string, store *cart.Store) {
	data := gin.H{
		"lines":  store.Lines(),
		"totals": store.Totals(),
	}
	if err := store.LastSyncError(); err != nil {
		data["sync_error"] = err.Error()
	}

	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}
