// internal/domain/cart/service_test.go
package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/your-org/bakery-backend/internal/config"
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
		&CartItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64) *catalog.Product {
	t.Helper()

	category := catalog.Category{Name: "Cakes", Slug: "cakes-" + name, Icon: catalog.IconCake}
	require.NoError(t, db.Create(&category).Error)

	product := catalog.Product{Name: name, Price: price, CategoryID: category.ID, InStock: true}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestAddToCartMergesQuantities(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	product := seedProduct(t, db, "Brownie", 400)

	item, err := svc.AddToCart("guest-1", &AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, 2, item.Quantity)

	// Same product again merges into one row.
	item, err = svc.AddToCart("guest-1", &AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 5, item.Quantity)

	response, err := svc.GetItems("guest-1")
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	require.Equal(t, 1, response.Totals.ItemCount)
	require.Equal(t, 5, response.Totals.TotalQuantity)
	require.Equal(t, int64(2000), response.Totals.SubTotal)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.AddToCart("guest-1", &AddToCartRequest{ProductID: "missing", Quantity: 1})
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCartsAreIsolatedByOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	product := seedProduct(t, db, "Croissant", 350)

	_, err := svc.AddToCart("guest-1", &AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	response, err := svc.GetItems("guest-2")
	require.NoError(t, err)
	require.Empty(t, response.Items)
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	product := seedProduct(t, db, "Danish", 380)

	item, err := svc.AddToCart("guest-1", &AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(item.ID, 0)
	require.NoError(t, err)
	require.Nil(t, updated)

	response, err := svc.GetItems("guest-1")
	require.NoError(t, err)
	require.Empty(t, response.Items)
}

func TestRemoveMissingItem(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})

	err := svc.RemoveItem("nope")
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	product := seedProduct(t, db, "Palmier", 260)

	_, err := svc.AddToCart("guest-1", &AddToCartRequest{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)

	require.NoError(t, svc.Clear("guest-1"))

	response, err := svc.GetItems("guest-1")
	require.NoError(t, err)
	require.Empty(t, response.Items)
}

func TestMergeGuestCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	shared := seedProduct(t, db, "Baguette", 300)
	guestOnly := seedProduct(t, db, "Focaccia", 550)

	// The user already has one of the shared product; the guest cart has
	// two more plus a product the user lacks.
	_, err := svc.AddToCart("user-1", &AddToCartRequest{ProductID: shared.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddToCart("session-abc", &AddToCartRequest{ProductID: shared.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart("session-abc", &AddToCartRequest{ProductID: guestOnly.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.MergeGuestCart("user-1", "session-abc"))

	merged, err := svc.GetItems("user-1")
	require.NoError(t, err)
	require.Len(t, merged.Items, 2)
	require.Equal(t, 4, merged.Totals.TotalQuantity)

	guest, err := svc.GetItems("session-abc")
	require.NoError(t, err)
	require.Empty(t, guest.Items)
}
