// internal/domain/order/service_test.go
package order

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeNotifier struct {
	mu           sync.Mutex
	placed       []*Order
	statusEvents []*Order
}

func (f *fakeNotifier) NotifyOrderPlaced(o *Order) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, o)
	return true
}

func (f *fakeNotifier) NotifyStatusChanged(o *Order) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusEvents = append(f.statusEvents, o)
	return true
}

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
		&catalog.AddOn{},
		&catalog.ProductAddOn{},
		&Order{},
		&OrderItem{},
		&OrderItemAddOn{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, cfg *config.Config) (*Service, *fakeNotifier) {
	t.Helper()

	notifier := &fakeNotifier{}
	log := logrus.New()
	svc := NewService(db, cfg, notifier, log)
	svc.syncNotify = true
	return svc, notifier
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64) *catalog.Product {
	t.Helper()

	category := catalog.Category{Name: "Cakes", Slug: "cakes-" + name, Icon: catalog.IconCake}
	require.NoError(t, db.Create(&category).Error)

	product := catalog.Product{Name: name, Price: price, CategoryID: category.ID, InStock: true}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestPlaceOrderGuestCheckout(t *testing.T) {
	db := newTestDB(t)
	svc, notifier := newTestService(t, db, &config.Config{})
	product := seedProduct(t, db, "Chocolate Cake", 2500)

	placed, err := svc.PlaceOrder(&PlaceOrderRequest{
		CustomerName:    "Sam Guest",
		CustomerEmail:   "sam@example.com",
		CustomerPhone:   "555-0101",
		CustomerAddress: "12 Baker Street",
		DeliveryFee:     500,
		Total:           3000,
		Items: []PlaceOrderLine{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 2500, LineTotal: 2500},
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusPlaced, placed.Status)
	require.Equal(t, int64(3000), placed.Total)
	require.Equal(t, int64(500), placed.DeliveryFee)

	stored, err := svc.GetOrder(placed.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	require.Equal(t, int64(2500), stored.Items[0].UnitPrice)

	require.Len(t, notifier.placed, 1)
	require.Equal(t, placed.ID, notifier.placed[0].ID)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, &config.Config{})
	product := seedProduct(t, db, "Banana Bread", 800)

	// Missing contact details.
	_, err := svc.PlaceOrder(&PlaceOrderRequest{
		Items: []PlaceOrderLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	require.Contains(t, apperror.FieldsOf(err), "customer_email")

	// No items.
	_, err = svc.PlaceOrder(&PlaceOrderRequest{
		CustomerName: "A", CustomerEmail: "a@b.c", CustomerPhone: "1", CustomerAddress: "x",
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	// Unknown product.
	_, err = svc.PlaceOrder(&PlaceOrderRequest{
		CustomerName: "A", CustomerEmail: "a@b.c", CustomerPhone: "1", CustomerAddress: "x",
		Items: []PlaceOrderLine{{ProductID: "missing", Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPlaceOrderVerifyPricing(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Store.VerifyPricing = true
	svc, _ := newTestService(t, db, cfg)
	product := seedProduct(t, db, "Eclair", 450)

	_, err := svc.PlaceOrder(&PlaceOrderRequest{
		CustomerName: "A", CustomerEmail: "a@b.c", CustomerPhone: "1", CustomerAddress: "x",
		Items: []PlaceOrderLine{{ProductID: product.ID, Quantity: 2, UnitPrice: 1, LineTotal: 2}},
	})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAddOnSnapshotSurvivesAddOnDeletion(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, &config.Config{})
	product := seedProduct(t, db, "Birthday Cake", 2800)

	addOn := catalog.AddOn{Name: "Gold Candles", AdditionalPrice: 300}
	require.NoError(t, db.Create(&addOn).Error)

	placed, err := svc.PlaceOrder(&PlaceOrderRequest{
		CustomerName: "Pat", CustomerEmail: "pat@example.com",
		CustomerPhone: "555-0102", CustomerAddress: "3 High Street",
		Total: 3100,
		Items: []PlaceOrderLine{{
			ProductID: product.ID, Quantity: 1, UnitPrice: 2800, LineTotal: 3100,
			AddOns: []PlaceOrderLineAddOn{{AddOnID: addOn.ID}},
		}},
	})
	require.NoError(t, err)

	addOnSvc := catalog.NewAddOnService(db, &config.Config{})
	require.NoError(t, addOnSvc.DeleteAddOn(addOn.ID))

	stored, err := svc.GetOrder(placed.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	require.Len(t, stored.Items[0].AddOns, 1)

	snapshot := stored.Items[0].AddOns[0]
	require.Nil(t, snapshot.AddOnID)
	require.Equal(t, "Gold Candles", snapshot.AddOnName)
	require.Equal(t, int64(300), snapshot.AddOnPrice)
}

func TestSetStatusEnumAlwaysEnforced(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, &config.Config{})
	product := seedProduct(t, db, "Scone", 300)

	placed := mustPlace(t, svc, product)

	_, err := svc.SetStatus(placed.ID, Status("shipped"))
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSetStatusFreeFormWhenFlowDisabled(t *testing.T) {
	db := newTestDB(t)
	svc, notifier := newTestService(t, db, &config.Config{})
	product := seedProduct(t, db, "Scone", 300)

	placed := mustPlace(t, svc, product)

	// Skipping straight to completed is allowed when the transition
	// graph is not enforced.
	updated, err := svc.SetStatus(placed.ID, StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, updated.Status)
	require.Len(t, notifier.statusEvents, 1)
}

func TestSetStatusEnforcedFlow(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Store.EnforceStatusFlow = true
	svc, _ := newTestService(t, db, cfg)
	product := seedProduct(t, db, "Scone", 300)

	placed := mustPlace(t, svc, product)

	_, err := svc.SetStatus(placed.ID, StatusCompleted)
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	updated, err := svc.SetStatus(placed.ID, StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, updated.Status)

	// Cancel is reachable from any non-terminal state.
	updated, err = svc.SetStatus(placed.ID, StatusCanceled)
	require.NoError(t, err)
	require.Equal(t, StatusCanceled, updated.Status)

	_, err = svc.SetStatus(placed.ID, StatusDelivered)
	require.Error(t, err)
}

func TestDeleteOrderCascades(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, &config.Config{})
	product := seedProduct(t, db, "Muffin", 350)

	addOn := catalog.AddOn{Name: "Extra Berries", AdditionalPrice: 100}
	require.NoError(t, db.Create(&addOn).Error)

	placed, err := svc.PlaceOrder(&PlaceOrderRequest{
		CustomerName: "Lee", CustomerEmail: "lee@example.com",
		CustomerPhone: "555-0103", CustomerAddress: "9 Mill Lane",
		Total: 450,
		Items: []PlaceOrderLine{{
			ProductID: product.ID, Quantity: 1, UnitPrice: 350, LineTotal: 450,
			AddOns: []PlaceOrderLineAddOn{{AddOnID: addOn.ID}},
		}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(placed.ID))

	var itemCount, addOnCount int64
	require.NoError(t, db.Model(&OrderItem{}).Count(&itemCount).Error)
	require.NoError(t, db.Model(&OrderItemAddOn{}).Count(&addOnCount).Error)
	require.Zero(t, itemCount)
	require.Zero(t, addOnCount)

	err = svc.DeleteOrder(placed.ID)
	require.Error(t, err)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGetOrdersFilterByStatus(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, &config.Config{})
	product := seedProduct(t, db, "Tart", 1200)

	first := mustPlace(t, svc, product)
	mustPlace(t, svc, product)

	_, err := svc.SetStatus(first.ID, StatusDelivered)
	require.NoError(t, err)

	resp, err := svc.GetOrders(&OrderListRequest{Page: 1, Limit: 20, Status: StatusDelivered})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	require.Equal(t, first.ID, resp.Orders[0].ID)

	resp, err = svc.GetOrders(&OrderListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Pagination.Total)

	_, err = svc.GetOrders(&OrderListRequest{Page: 1, Limit: 20, Status: Status("bogus")})
	require.Error(t, err)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func mustPlace(t *testing.T, svc *Service, product *catalog.Product) *Order {
	t.Helper()

	placed, err := svc.PlaceOrder(&PlaceOrderRequest{
		CustomerName: "Casey", CustomerEmail: "casey@example.com",
		CustomerPhone: "555-0104", CustomerAddress: "4 Rose Walk",
		Total: product.Price,
		Items: []PlaceOrderLine{{
			ProductID: product.ID, Quantity: 1, UnitPrice: product.Price, LineTotal: product.Price,
		}},
	})
	require.NoError(t, err)
	return placed
}
