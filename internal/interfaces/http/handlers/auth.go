// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService     *user.Service
	cartService     *cart.Service
	wishlistService *wishlist.Service
	cache           *redis.Client
	config          *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, cache *redis.Client, cfg *config.Config) *AuthHandler {
	cartService := cart.NewService(db, cfg)
	return &AuthHandler{
		userService:     user.NewService(db, cfg),
		cartService:     cartService,
		wishlistService: wishlist.NewService(db, cfg, cartService),
		cache:           cache,
		config:          cfg,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	authResponse, err := h.userService.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.adoptGuestSession(c, authResponse.User.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"data":    authResponse,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	authResponse, err := h.userService.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	h.adoptGuestSession(c, authResponse.User.ID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    authResponse,
	})
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Refresh token required",
		})
		return
	}

	authResponse, err := h.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed successfully",
		"data":    authResponse,
	})
}

// Logout handles POST /auth/logout. Tokens are stateless; logout clears
// the session's cart and wishlist mirrors so the next user on this device
// starts clean.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.GetSessionIDFromContext(c)
	if sessionID != "" {
		_ = h.cache.Del(c.Request.Context(),
			fmt.Sprintf("store:cart:%s", sessionID),
			fmt.Sprintf("store:wishlist:%s", sessionID),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// adoptGuestSession merges any guest cart lines accumulated on this
// session into the user's persistent cart, then drops the guest mirrors.
// The next store load resyncs from the merged state.
func (h *AuthHandler) adoptGuestSession(c *gin.Context, userID uint) {
	sessionID := middleware.GetSessionIDFromContext(c)
	if sessionID == "" {
		return
	}
	ctx := c.Request.Context()

	cartKey := fmt.Sprintf("store:cart:%s", sessionID)
	var cartMirror cart.Mirror
	if err := h.cache.GetJSON(ctx, cartKey, &cartMirror); err == nil {
		if cartMirror.OwnerID == nil && len(cartMirror.Lines) > 0 {
			_ = h.cartService.MergeLines(userID, cartMirror.Lines)
		}
		_ = h.cache.Del(ctx, cartKey)
	}

	wishlistKey := fmt.Sprintf("store:wishlist:%s", sessionID)
	var wishlistMirror wishlist.Mirror
	if err := h.cache.GetJSON(ctx, wishlistKey, &wishlistMirror); err == nil {
		if wishlistMirror.OwnerID == nil {
			for _, entry := range wishlistMirror.Entries {
				_ = h.wishlistService.Add(userID, entry.ProductID)
			}
		}
		_ = h.cache.Del(ctx, wishlistKey)
	}
}
