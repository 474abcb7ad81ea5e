// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// WishlistHandler handles wishlist endpoints through per-session stores,
// mirroring the cart handler's guest/authenticated split.
type WishlistHandler struct {
	wishlistService *wishlist.Service
	cache           *redis.Client
	config          *config.Config
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(db *gorm.DB, cache *redis.Client, cfg *config.Config) *WishlistHandler {
	cartService := cart.NewService(db, cfg)
	return &WishlistHandler{
		wishlistService: wishlist.NewService(db, cfg, cartService),
		cache:           cache,
		config:          cfg,
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load wishlist",
		})
		return
	}

	h.respondWithWishlist(c, http.StatusOK, "Wishlist retrieved successfully", store)
}

// ToggleItem handles POST /wishlist/items/:id/toggle. Adds the product
// when absent, removes it when present.
func (h *WishlistHandler) ToggleItem(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load wishlist",
		})
		return
	}

	added, err := store.Toggle(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Wishlist could not be updated, state restored",
		})
		return
	}

	message := "Item removed from wishlist"
	if added {
		message = "Item added to wishlist"
	}
	h.respondWithWishlist(c, http.StatusOK, message, store)
}

// RemoveItem handles DELETE /wishlist/items/:id
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load wishlist",
		})
		return
	}

	if err := store.Remove(c.Request.Context(), productID); err != nil {
		status := http.StatusConflict
		if store.LastSyncError() == nil {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.respondWithWishlist(c, http.StatusOK, "Item removed from wishlist successfully", store)
}

// ClearWishlist handles DELETE /wishlist
func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load wishlist",
		})
		return
	}

	if err := store.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Wishlist could not be cleared, state restored",
		})
		return
	}

	h.respondWithWishlist(c, http.StatusOK, "Wishlist cleared successfully", store)
}

// Resync handles POST /wishlist/resync
func (h *WishlistHandler) Resync(c *gin.Context) {
	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load wishlist",
		})
		return
	}

	if err := store.Resync(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to resync wishlist",
		})
		return
	}

	h.respondWithWishlist(c, http.StatusOK, "Wishlist resynced successfully", store)
}

// MoveToCart handles POST /wishlist/items/:id/move-to-cart. Requires
// authentication since the cart write goes to the user's rows.
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	productID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req struct {
		Size     string `json:"size"`
		Color    string `json:"color"`
		Quantity int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.wishlistService.MoveToCart(userID, productID, req.Size, req.Color, req.Quantity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// Both mirrors changed underneath their session blobs; refresh the
	// wishlist one and drop the cart one so the next load refetches
	if sessionID := middleware.GetSessionIDFromContext(c); sessionID != "" {
		_ = h.cache.Del(c.Request.Context(), fmt.Sprintf("store:cart:%s", sessionID))
	}
	store, err := h.loadStore(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Item moved to cart successfully",
		})
		return
	}
	_ = store.Resync(c.Request.Context())

	h.respondWithWishlist(c, http.StatusOK, "Item moved to cart successfully", store)
}

// Private helper methods

func (h *WishlistHandler) loadStore(c *gin.Context) (*wishlist.Store, error) {
	sessionID := middleware.GetSessionIDFromContext(c)

	var boundUser *uint
	var remote wishlist.Remote
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		boundUser = &userID
		remote = h.wishlistService
	}

	store := wishlist.NewStore(sessionID, boundUser, remote, h.cache, h.config.Store.SessionTTL)
	if err := store.Load(c.Request.Context()); err != nil {
		return nil, err
	}
	return store, nil
}

func (h *WishlistHandler) respondWithWishlist(c *gin.Context, status int, message string, store *wishlist.Store) {
	data := gin.H{
		"entries": store.Entries(),
		"count":   len(store.Entries()),
	}
	if err := store.LastSyncError(); err != nil {
		data["sync_error"] = err.Error()
	}

	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
