// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/bakery-backend/internal/domain/cart"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/domain/order"
	"github.com/your-org/bakery-backend/internal/domain/review"
	"github.com/your-org/bakery-backend/internal/domain/user"
	"github.com/your-org/bakery-backend/internal/domain/wishlist"
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

// Models returns every model in dependency order. Shared with the test
// helpers so migrations stay in one place.
func Models() []interface{} {
	return []interface{}{
		// User domain - base tables
		&user.User{},

		// Catalog domain
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductImage{},
		&catalog.AddOn{},
		&catalog.ProductAddOn{},

		// Cart domain
		&cart.CartItem{},

		// Order domain - dependent tables
		&order.Order{},
		&order.OrderItem{},
		&order.OrderItemAddOn{},

		// Review domain
		&review.Review{},

		// Wishlist domain
		&wishlist.Item{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	for _, model := range Models() {
		log.Printf("Migrating model: %T", model)
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
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_owner ON cart_items(owner_key)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(customer_email)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_item_add_ons_item ON order_item_add_ons(order_item_id)",

		// Review indexes
		"CREATE INDEX IF NOT EXISTS idx_reviews_product_created ON reviews(product_id, created_at DESC)",

		// Wishlist indexes
		"CREATE INDEX IF NOT EXISTS idx_wishlist_items_user ON wishlist_items(user_id)",
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

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates default bakery categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []catalog.Category{
		{
			Name:        "Cakes",
			Slug:        "cakes",
			Description: "Layer cakes, cheesecakes, and celebration cakes",
			Icon:        catalog.IconCake,
		},
		{
			Name:        "Cupcakes",
			Slug:        "cupcakes",
			Description: "Individually decorated cupcakes in classic and seasonal flavors",
			Icon:        catalog.IconCupcake,
		},
		{
			Name:        "Breads",
			Slug:        "breads",
			Description: "Sourdough, baguettes, and daily loaves",
			Icon:        catalog.IconBread,
		},
		{
			Name:        "Cookies",
			Slug:        "cookies",
			Description: "Cookies and biscuits baked fresh every morning",
			Icon:        catalog.IconCookie,
		},
		{
			Name:        "Pastries",
			Slug:        "pastries",
			Description: "Croissants, danishes, and laminated pastries",
			Icon:        catalog.IconCroissant,
		},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("slug = ?", category.Slug).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️ Category already exists: %s", category.Name)
		}
	}

	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		log.Println("⏭️ Admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Username:  "admin",
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		IsAdmin:   true,
	}

	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	return nil
}

// GetTableInfo logs row counts per table, handy during development
func (m *Migration) GetTableInfo() {
	tables := []string{
		"users", "categories", "products", "product_images", "add_ons",
		"product_add_ons", "cart_items", "orders", "order_items",
		"order_item_add_ons", "reviews", "wishlist_items",
	}

	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			log.Printf("⚠️ Failed to count table %s: %v", table, err)
			continue
		}
		log.Printf("📊 Table %s: %d rows", table, count)
	}
}
