// internal/domain/wishlist/service.go
package wishlist

import (
	"errors"
	"fmt"

	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles wishlist business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add saves a product to the user's wishlist
func (s *Service) Add(userID, productID string) (*Item, error) {
	var product catalog.Product
	if err := s.db.Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(err)
	}

	item := Item{UserID: userID, ProductID: productID}
	if err := s.db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("product is already on your wishlist")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to add wishlist item: %w", err))
	}
	return &item, nil
}

// Remove deletes a product from the user's wishlist
func (s *Service) Remove(userID, productID string) error {
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&Item{})
	if result.Error != nil {
		return apperror.Internal(fmt.Errorf("failed to remove wishlist item: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("wishlist item")
	}
	return nil
}

// List returns the user's wishlist with products preloaded, newest first
func (s *Service) List(userID string) ([]Item, error) {
	var items []Item
	err := s.db.
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve wishlist: %w", err))
	}
	return items, nil
}

// Contains reports whether the product is on the user's wishlist
func (s *Service) Contains(userID, productID string) (bool, error) {
	var count int64
	err := s.db.Model(&Item{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, apperror.Internal(err)
	}
	return count > 0, nil
}
