// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/returns"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// User domain
		&user.User{},
		&user.Address{},

		// Catalog domain
		&catalog.Brand{},
		&catalog.Product{},
		&catalog.ProductImage{},
		&catalog.Review{},

		// Inventory domain
		&inventory.StockMovement{},

		// Cart and wishlist rows
		&cart.Item{},
		&wishlist.Item{},

		// Order domain
		&order.Order{},
		&order.OrderItem{},
		&order.StatusHistory{},

		// Returns domain
		&returns.Request{},
		&returns.TimelineEntry{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_brand_active ON products(brand_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Product image indexes
		"CREATE INDEX IF NOT EXISTS idx_product_images_product_primary ON product_images(product_id, is_primary)",

		// Review indexes
		"CREATE INDEX IF NOT EXISTS idx_reviews_product_rating ON reviews(product_id, rating)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at DESC)",

		// Cart indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_user_selection ON cart_items(user_id, product_id, size, color) WHERE deleted_at IS NULL",

		// Wishlist indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlist_items_user_product ON wishlist_items(user_id, product_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_status ON order_items(order_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",

		// Returns indexes
		"CREATE INDEX IF NOT EXISTS idx_return_requests_user_status ON return_replace_requests(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_return_requests_item_status ON return_replace_requests(order_item_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_return_timeline_request ON return_request_timeline(request_id, created_at)",

		// Stock movement indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference_type, reference_id)",

		// Address indexes
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data for development environments
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := m.seedCatalog(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedUsers creates the default admin and a development test user
func (m *Migration) seedUsers() error {
	users := []struct {
		email     string
		password  string
		firstName string
		lastName  string
		isAdmin   bool
	}{
		{"admin@example.com", "Admin1234", "Store", "Admin", true},
		{"test@example.com", "Test1234", "Test", "Customer", false},
	}

	for _, u := range users {
		var count int64
		if err := m.db.Model(&user.User{}).Where("email = ?", u.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		seedUser := user.User{
			Email:         u.email,
			Password:      string(hashed),
			FirstName:     u.firstName,
			LastName:      u.lastName,
			IsActive:      true,
			IsAdmin:       u.isAdmin,
			EmailVerified: true,
		}
		if err := m.db.Create(&seedUser).Error; err != nil {
			return fmt.Errorf("failed to create seed user %s: %w", u.email, err)
		}
		log.Printf("Created seed user: %s", u.email)
	}

	return nil
}

// seedCatalog creates a few brands and products so a fresh environment
// has something to browse
func (m *Migration) seedCatalog() error {
	var count int64
	if err := m.db.Model(&catalog.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	brands := []catalog.Brand{
		{Name: "Northwind", Slug: "northwind", Description: "Outdoor and casual wear", IsActive: true},
		{Name: "Meridian", Slug: "meridian", Description: "Minimal everyday basics", IsActive: true},
	}
	for i := range brands {
		if err := m.db.Create(&brands[i]).Error; err != nil {
			return fmt.Errorf("failed to create seed brand: %w", err)
		}
	}

	products := []catalog.Product{
		{
			SKU:           "NW-TEE-001",
			Name:          "Classic Cotton Tee",
			Slug:          "classic-cotton-tee",
			Description:   "Soft cotton t-shirt for everyday wear",
			Price:         2500,
			ComparePrice:  3000,
			BrandID:       &brands[0].ID,
			Sizes:         "S,M,L,XL",
			Colors:        "Black,White,Navy",
			IsActive:      true,
			IsFeatured:    true,
			TrackQuantity: true,
			Quantity:      100,
		},
		{
			SKU:           "NW-HOOD-001",
			Name:          "Fleece Hoodie",
			Slug:          "fleece-hoodie",
			Description:   "Heavyweight fleece hoodie",
			Price:         6500,
			BrandID:       &brands[0].ID,
			Sizes:         "M,L,XL",
			Colors:        "Grey,Black",
			IsActive:      true,
			TrackQuantity: true,
			Quantity:      40,
		},
		{
			SKU:           "MD-JOGG-001",
			Name:          "Tapered Joggers",
			Slug:          "tapered-joggers",
			Description:   "Slim tapered joggers with zip pockets",
			Price:         4800,
			BrandID:       &brands[1].ID,
			Sizes:         "S,M,L",
			Colors:        "Olive,Black",
			IsActive:      true,
			TrackQuantity: true,
			Quantity:      60,
		},
	}
	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to create seed product: %w", err)
		}
	}

	log.Printf("Seeded %d brands and %d products", len(brands), len(products))
	return nil
}
