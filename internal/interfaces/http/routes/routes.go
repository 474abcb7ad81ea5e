// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API v1 routes
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, cache, cfg)
	SetupCatalogRoutes(rg, db, cfg)
	SetupStoreRoutes(rg, db, cache, cfg)
	SetupUserRoutes(rg, db, cfg)
	SetupOrderRoutes(rg, db, cache, cfg)
	SetupReturnsRoutes(rg, db, cfg)
	SetupAdminRoutes(rg, db, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cache, cfg)

	auth := rg.Group("/auth")
	auth.Use(middleware.SessionID()) // Login adopts the guest session store
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
		}
	}
}

// SetupCatalogRoutes sets up product and review browsing routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
	}

	rg.GET("/brands", productHandler.GetBrands)

	reviews := rg.Group("/reviews")
	{
		reviews.GET("", reviewHandler.GetReviews)

		protected := reviews.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("", reviewHandler.SubmitReview)
			protected.GET("/mine/:product_id", reviewHandler.GetMyReview)
			protected.DELETE("/:id", reviewHandler.DeleteReview)
		}
	}
}

// SetupStoreRoutes sets up cart and wishlist routes. Both work for
// guest sessions and authenticated users.
func SetupStoreRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cache, cfg)
	wishlistHandler := handlers.NewWishlistHandler(db, cache, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.SessionID())
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items", cartHandler.UpdateItem)
		cart.DELETE("/items", cartHandler.RemoveItem)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/resync", cartHandler.Resync)
	}

	wishlist := rg.Group("/wishlist")
	wishlist.Use(middleware.SessionID())
	wishlist.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("/items/:id/toggle", wishlistHandler.ToggleItem)
		wishlist.DELETE("/items/:id", wishlistHandler.RemoveItem)
		wishlist.DELETE("", wishlistHandler.ClearWishlist)
		wishlist.POST("/resync", wishlistHandler.Resync)
		wishlist.POST("/items/:id/move-to-cart", wishlistHandler.MoveToCart)
	}
}

// SetupUserRoutes sets up profile and address book routes
func SetupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	profileHandler := handlers.NewUserProfileHandler(db, cfg)
	addressHandler := handlers.NewUserAddressHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("/profile", profileHandler.GetProfile)
		users.PUT("/profile", profileHandler.UpdateProfile)
		users.PUT("/password", profileHandler.ChangePassword)

		users.GET("/addresses", addressHandler.GetAddresses)
		users.POST("/addresses", addressHandler.CreateAddress)
		users.GET("/addresses/:id", addressHandler.GetAddress)
		users.PUT("/addresses/:id", addressHandler.UpdateAddress)
		users.DELETE("/addresses/:id", addressHandler.DeleteAddress)
		users.PUT("/addresses/:id/default", addressHandler.SetDefaultAddress)
	}
}

// SetupOrderRoutes sets up checkout, order, and invoice routes
func SetupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cache *redis.Client, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(db, cache, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	invoiceHandler := handlers.NewInvoiceHandler(db, cfg)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.SessionID()) // Placing an order drains the session cart
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.GET("/summary", checkoutHandler.GetSummary)
		checkout.POST("/coupon", checkoutHandler.ApplyCoupon)
		checkout.DELETE("/coupon", checkoutHandler.RemoveCoupon)
		checkout.POST("/place-order", checkoutHandler.PlaceOrder)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("/:id/cancel", orderHandler.CancelOrder)
		orders.GET("/:id/invoice", invoiceHandler.Download)
	}
}

// SetupReturnsRoutes sets up customer return/replace request routes
func SetupReturnsRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	returnsHandler := handlers.NewReturnsHandler(db, cfg)

	returns := rg.Group("/returns")
	returns.Use(middleware.AuthMiddleware(cfg))
	{
		returns.POST("", returnsHandler.Submit)
		returns.GET("", returnsHandler.GetRequests)
		returns.GET("/:id", returnsHandler.GetRequest)
		returns.POST("/:id/cancel", returnsHandler.Cancel)
	}
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(db, cfg)
	returnsHandler := handlers.NewReturnsHandler(db, cfg)
	inventoryHandler := handlers.NewInventoryHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		orders := admin.Group("/orders")
		{
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}

		returns := admin.Group("/returns")
		{
			returns.GET("", returnsHandler.AdminGetRequests)
			returns.POST("/:id/approve", returnsHandler.Approve)
			returns.POST("/:id/reject", returnsHandler.Reject)
			returns.POST("/:id/schedule-pickup", returnsHandler.SchedulePickup)
			returns.POST("/:id/picked-up", returnsHandler.MarkPickedUp)
			returns.POST("/:id/inspect", returnsHandler.BeginInspection)
			returns.POST("/:id/complete", returnsHandler.Complete)
		}

		inventory := admin.Group("/inventory")
		{
			inventory.GET("/:product_id/movements", inventoryHandler.GetMovements)
			inventory.POST("/:product_id/adjust", inventoryHandler.AdjustStock)
		}
	}
}
