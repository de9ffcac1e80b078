// internal/domain/catalog/service_test.go
package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/domain/order"
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
		&catalog.ProductImage{},
		&catalog.AddOn{},
		&catalog.ProductAddOn{},
		&order.Order{},
		&order.OrderItem{},
		&order.OrderItemAddOn{},
	))
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{}
}

func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *catalog.Category {
	t.Helper()
	category := catalog.Category{Name: name, Slug: slug, Icon: catalog.IconCake}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func TestCreateProduct(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewService(db, newTestConfig())
	category := seedCategory(t, db, "Cakes", "cakes")

	view, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name:       "Chocolate Fudge Cake",
		Price:      2500,
		CategoryID: category.ID,
		Tags:       []string{"chocolate", "bestseller"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)
	require.Equal(t, int64(2500), view.Price)
	require.Equal(t, []string{"chocolate", "bestseller"}, view.TagList)

	// New products start at the default rating.
	require.Equal(t, float64(5), view.Rating)

	var refreshed catalog.Category
	require.NoError(t, db.First(&refreshed, "id = ?", category.ID).Error)
	require.Equal(t, 1, refreshed.ItemCount)
}

func TestCreateProductRejectsSalePriceAboveOriginal(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewService(db, newTestConfig())
	category := seedCategory(t, db, "Cakes", "cakes")

	original := int64(1000)
	_, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name:          "Discount Gone Wrong",
		Price:         2000,
		OriginalPrice: &original,
		CategoryID:    category.ID,
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateProductUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewService(db, newTestConfig())

	_, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name:       "Orphan Pie",
		Price:      900,
		CategoryID: "00000000-0000-0000-0000-000000000000",
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetProductsFiltering(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewService(db, newTestConfig())
	cakes := seedCategory(t, db, "Cakes", "cakes")
	breads := seedCategory(t, db, "Breads", "breads")

	_, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Victoria Sponge", Price: 1800, CategoryID: cakes.ID, IsFeatured: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Sourdough Loaf", Price: 700, CategoryID: breads.ID,
	})
	require.NoError(t, err)

	resp, err := svc.GetProducts(&catalog.ProductListRequest{Page: 1, Limit: 20, Category: "cakes"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	require.Equal(t, "Victoria Sponge", resp.Products[0].Name)

	featured := true
	resp, err = svc.GetProducts(&catalog.ProductListRequest{Page: 1, Limit: 20, Featured: &featured})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)

	resp, err = svc.GetProducts(&catalog.ProductListRequest{Page: 1, Limit: 20, Search: "sour"})
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	require.Equal(t, "Sourdough Loaf", resp.Products[0].Name)
}

func TestDeleteProductReferencedByOrder(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewService(db, newTestConfig())
	category := seedCategory(t, db, "Cakes", "cakes")

	view, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Carrot Cake", Price: 2200, CategoryID: category.ID,
	})
	require.NoError(t, err)

	placed := order.Order{
		CustomerName: "Jess", CustomerEmail: "jess@example.com",
		CustomerPhone: "555-0100", CustomerAddress: "1 Main St",
		Total: 2200, Status: order.StatusPlaced,
	}
	require.NoError(t, db.Create(&placed).Error)
	require.NoError(t, db.Create(&order.OrderItem{
		OrderID: placed.ID, ProductID: view.ID, Quantity: 1, UnitPrice: 2200, LineTotal: 2200,
	}).Error)

	err = svc.DeleteProduct(view.ID)
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestDeleteProductRefreshesCategoryCount(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewService(db, newTestConfig())
	category := seedCategory(t, db, "Cakes", "cakes")

	view, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Lemon Drizzle", Price: 1500, CategoryID: category.ID,
	})
	require.NoError(t, err)
	kept, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Victoria Sponge", Price: 1800, CategoryID: category.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(view.ID))

	var count int64
	require.NoError(t, db.Model(&catalog.Product{}).Where("id = ?", view.ID).Count(&count).Error)
	require.Zero(t, count)

	_, err = svc.GetProduct(kept.ID)
	require.NoError(t, err)

	var refreshed catalog.Category
	require.NoError(t, db.First(&refreshed, "id = ?", category.ID).Error)
	require.Equal(t, 1, refreshed.ItemCount)
}

func TestCategorySlugConflict(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewCategoryService(db, newTestConfig())

	_, err := svc.CreateCategory(&catalog.CategoryCreateRequest{Name: "Cakes", Icon: "cake"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(&catalog.CategoryCreateRequest{Name: "Cakes", Icon: "cake"})
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCategoryInvalidIcon(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewCategoryService(db, newTestConfig())

	_, err := svc.CreateCategory(&catalog.CategoryCreateRequest{Name: "Muffins", Icon: "muffin"})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	db := newTestDB(t)
	categorySvc := catalog.NewCategoryService(db, newTestConfig())
	productSvc := catalog.NewService(db, newTestConfig())

	category, err := categorySvc.CreateCategory(&catalog.CategoryCreateRequest{Name: "Cakes", Icon: "cake"})
	require.NoError(t, err)

	_, err = productSvc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Red Velvet", Price: 2600, CategoryID: category.ID,
	})
	require.NoError(t, err)

	err = categorySvc.DeleteCategory(category.ID)
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "cakes-pastries", catalog.Slugify("Cakes & Pastries"))
	require.Equal(t, "pain-au-chocolat", catalog.Slugify("  Pain au Chocolat  "))
}

func TestProductImagePositionConflict(t *testing.T) {
	db := newTestDB(t)
	svc := catalog.NewService(db, newTestConfig())
	category := seedCategory(t, db, "Cakes", "cakes")

	view, err := svc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Opera Cake", Price: 3000, CategoryID: category.ID,
	})
	require.NoError(t, err)

	_, err = svc.AddProductImage(&catalog.ProductImageRequest{
		ProductID: view.ID, URL: "https://img.example.com/a.jpg", Position: 1,
	})
	require.NoError(t, err)

	_, err = svc.AddProductImage(&catalog.ProductImageRequest{
		ProductID: view.ID, URL: "https://img.example.com/b.jpg", Position: 1,
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestAssignAddOnTwice(t *testing.T) {
	db := newTestDB(t)
	addOnSvc := catalog.NewAddOnService(db, newTestConfig())
	productSvc := catalog.NewService(db, newTestConfig())
	category := seedCategory(t, db, "Cakes", "cakes")

	view, err := productSvc.CreateProduct(&catalog.ProductCreateRequest{
		Name: "Birthday Cake", Price: 2800, CategoryID: category.ID,
	})
	require.NoError(t, err)

	addOn, err := addOnSvc.CreateAddOn(&catalog.AddOnCreateRequest{Name: "Candles", AdditionalPrice: 300})
	require.NoError(t, err)

	_, err = addOnSvc.AssignAddOn(&catalog.ProductAddOnRequest{ProductID: view.ID, AddOnID: addOn.ID})
	require.NoError(t, err)

	_, err = addOnSvc.AssignAddOn(&catalog.ProductAddOnRequest{ProductID: view.ID, AddOnID: addOn.ID})
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	addOns, err := productSvc.GetProductAddOns(view.ID)
	require.NoError(t, err)
	require.Len(t, addOns, 1)
	require.Equal(t, "Candles", addOns[0].Name)
}
