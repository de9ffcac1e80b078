// internal/domain/review/service_test.go
package review

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/domain/user"
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
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&Review{},
	))
	return db
}

func seedFixtures(t *testing.T, db *gorm.DB) (*user.User, *catalog.Product) {
	t.Helper()

	account := user.User{Username: "taster", Email: "taster@example.com", Password: "x", FirstName: "Tess"}
	require.NoError(t, db.Create(&account).Error)

	category := catalog.Category{Name: "Cakes", Slug: "cakes", Icon: catalog.IconCake}
	require.NoError(t, db.Create(&category).Error)

	product := catalog.Product{Name: "Tiramisu", Price: 1900, CategoryID: category.ID, Rating: 5}
	require.NoError(t, db.Create(&product).Error)

	return &account, &product
}

func TestCreateReview(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	account, product := seedFixtures(t, db)

	created, err := svc.Create(account.ID, &CreateReviewRequest{
		ProductID: product.ID, Rating: 4, Comment: "Lovely texture",
	})
	require.NoError(t, err)
	require.Equal(t, 4, created.Rating)

	// The product's cached rating tracks the review mean.
	var refreshed catalog.Product
	require.NoError(t, db.First(&refreshed, "id = ?", product.ID).Error)
	require.Equal(t, float64(4), refreshed.Rating)
}

func TestCreateReviewOncePerProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	account, product := seedFixtures(t, db)

	_, err := svc.Create(account.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)

	_, err = svc.Create(account.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 1})
	require.Error(t, err)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	account, product := seedFixtures(t, db)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(account.ID, &CreateReviewRequest{ProductID: product.ID, Rating: rating})
		require.Error(t, err)
		require.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
}

func TestUpdateReviewAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	account, product := seedFixtures(t, db)

	other := user.User{Username: "rival", Email: "rival@example.com", Password: "x"}
	require.NoError(t, db.Create(&other).Error)

	created, err := svc.Create(account.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 3})
	require.NoError(t, err)

	newRating := 5
	_, err = svc.Update(created.ID, other.ID, false, &UpdateReviewRequest{Rating: &newRating})
	require.Error(t, err)
	require.Equal(t, apperror.KindAuthorization, apperror.KindOf(err))

	// An admin may edit any review.
	updated, err := svc.Update(created.ID, other.ID, true, &UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)
	require.Equal(t, 5, updated.Rating)
}

func TestDeleteReviewRestoresDefaultRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	account, product := seedFixtures(t, db)

	created, err := svc.Create(account.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID, account.ID, false))

	var refreshed catalog.Product
	require.NoError(t, db.First(&refreshed, "id = ?", product.ID).Error)
	require.Equal(t, float64(5), refreshed.Rating)
}

func TestGetRatingStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	account, product := seedFixtures(t, db)

	// No reviews yet: zero average, zero count.
	stats, err := svc.GetRatingStats(product.ID)
	require.NoError(t, err)
	require.Zero(t, stats.Average)
	require.Zero(t, stats.Count)

	other := user.User{Username: "second", Email: "second@example.com", Password: "x"}
	require.NoError(t, db.Create(&other).Error)

	_, err = svc.Create(account.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(other.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 2})
	require.NoError(t, err)

	stats, err = svc.GetRatingStats(product.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Count)
	require.InDelta(t, 3.5, stats.Average, 0.001)
}

func TestGetProductReviewsWithAuthors(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, &config.Config{})
	account, product := seedFixtures(t, db)

	_, err := svc.Create(account.ID, &CreateReviewRequest{ProductID: product.ID, Rating: 4, Comment: "Great"})
	require.NoError(t, err)

	reviews, err := svc.GetProductReviews(product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotEmpty(t, reviews[0].AuthorName)
}
