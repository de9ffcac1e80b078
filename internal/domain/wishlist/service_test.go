// internal/domain/wishlist/service_test.go
package wishlist

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&Item{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB) *catalog.Product {
	t.Helper()

	category := catalog.Category{Name: "Cakes", Slug: "cakes", Icon: catalog.IconCake}
	require.NoError(t, db.Create(&category).Error)

	product := catalog.Product{Name: "Macaron Box", Price: 1600, CategoryID: category.ID}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestAddAndListWishlist(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db)

	_, err := svc.Add("user-1", product.ID)
	require.NoError(t, err)

	items, err := svc.List("user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	require.Equal(t, "Macaron Box", items[0].Product.Name)

	contains, err := svc.Contains("user-1", product.ID)
	require.NoError(t, err)
	require.True(t, contains)

	contains, err = svc.Contains("user-2", product.ID)
	require.NoError(t, err)
	require.False(t, contains)
}

func TestAddDuplicateWishlistItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db)

	_, err := svc.Add("user-1", product.ID)
	require.NoError(t, err)

	_, err = svc.Add("user-1", product.ID)
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestAddUnknownProductToWishlist(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.Add("user-1", "missing")
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRemoveWishlistItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	product := seedProduct(t, db)

	_, err := svc.Add("user-1", product.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove("user-1", product.ID))

	err = svc.Remove("user-1", product.ID)
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
