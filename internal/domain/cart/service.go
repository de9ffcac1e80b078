// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartItemResponse represents a cart item joined with its live product.
// Prices here always reflect the current catalog; only order placement
// freezes them.
type CartItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Product   *catalog.Product `json:"product,omitempty"`
	AddedAt   time.Time        `json:"added_at"`
}

// CartResponse represents a shopping cart with items and totals
type CartResponse struct {
	OwnerKey string             `json:"-"`
	Items    []CartItemResponse `json:"items"`
	Totals   CartTotals         `json:"totals"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique items
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`      // At current catalog prices
}

// GetItems retrieves the cart for an owner key, joined with live products
func (s *Service) GetItems(ownerKey string) (*CartResponse, error) {
	var items []CartItem
	err := s.db.Where("owner_key = ?", ownerKey).Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve cart: %w", err))
	}

	responses := make([]CartItemResponse, len(items))
	for i, item := range items {
		responses[i] = CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			AddedAt:   item.CreatedAt,
		}

		var product catalog.Product
		if err := s.db.Preload("Category").Where("id = ?", item.ProductID).First(&product).Error; err == nil {
			responses[i].Product = &product
		}
	}

	return &CartResponse{
		OwnerKey: ownerKey,
		Items:    responses,
		Totals:   s.calculateTotals(responses),
	}, nil
}

// AddToCart adds a product to the owner's cart. Adding a product that is
// already present increments its quantity instead of duplicating the row.
func (s *Service) AddToCart(ownerKey string, req *AddToCartRequest) (*CartItem, error) {
	var product catalog.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(err)
	}

	item, err := s.mergeOrInsert(s.db, ownerKey, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a cart item. A quantity of zero or
// less removes the item; nil is returned in that case.
func (s *Service) UpdateQuantity(itemID string, quantity int) (*CartItem, error) {
	var item CartItem
	if err := s.db.Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("cart item")
		}
		return nil, apperror.Internal(err)
	}

	if quantity <= 0 {
		if err := s.db.Delete(&item).Error; err != nil {
			return nil, apperror.Internal(fmt.Errorf("failed to remove cart item: %w", err))
		}
		return nil, nil
	}

	if err := s.db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update cart item: %w", err))
	}
	item.Quantity = quantity
	return &item, nil
}

// RemoveItem deletes a cart item by id. Repeated calls after the first
// report not-found rather than failing.
func (s *Service) RemoveItem(itemID string) error {
	result := s.db.Where("id = ?", itemID).Delete(&CartItem{})
	if result.Error != nil {
		return apperror.Internal(fmt.Errorf("failed to remove cart item: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("cart item")
	}
	return nil
}

// Clear deletes all cart rows for the owner; a no-op on an empty cart
func (s *Service) Clear(ownerKey string) error {
	if err := s.db.Where("owner_key = ?", ownerKey).Delete(&CartItem{}).Error; err != nil {
		return apperror.Internal(fmt.Errorf("failed to clear cart: %w", err))
	}
	return nil
}

// MergeGuestCart folds a guest session cart into the user's cart at login
// time, summing quantities for products present in both. The guest cart is
// emptied afterwards.
func (s *Service) MergeGuestCart(userID, sessionID string) error {
	if sessionID == "" || sessionID == userID {
		return nil
	}

	var guestItems []CartItem
	if err := s.db.Where("owner_key = ?", sessionID).Find(&guestItems).Error; err != nil {
		return apperror.Internal(fmt.Errorf("failed to load guest cart: %w", err))
	}
	if len(guestItems) == 0 {
		return nil
	}

	for _, guestItem := range guestItems {
		if _, err := s.mergeOrInsert(s.db, userID, guestItem.ProductID, guestItem.Quantity); err != nil {
			return err
		}
	}

	return s.Clear(sessionID)
}

// mergeOrInsert increments an existing (owner, product) row or inserts a
// new one. An insert losing the race to a concurrent request falls back to
// the increment path via the unique-constraint error.
func (s *Service) mergeOrInsert(db *gorm.DB, ownerKey, productID string, quantity int) (*CartItem, error) {
	var existing CartItem
	err := db.Where("owner_key = ? AND product_id = ?", ownerKey, productID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		newItem := CartItem{
			OwnerKey:  ownerKey,
			ProductID: productID,
			Quantity:  quantity,
		}
		createErr := db.Create(&newItem).Error
		if createErr == nil {
			return &newItem, nil
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, apperror.Internal(fmt.Errorf("failed to add cart item: %w", createErr))
		}
		// Lost the insert race; re-read and fall through to the increment.
		if err := db.Where("owner_key = ? AND product_id = ?", ownerKey, productID).First(&existing).Error; err != nil {
			return nil, apperror.Internal(err)
		}
	} else if err != nil {
		return nil, apperror.Internal(err)
	}

	result := db.Model(&CartItem{}).
		Where("id = ?", existing.ID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to merge cart item: %w", result.Error))
	}

	if err := db.Where("id = ?", existing.ID).First(&existing).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return &existing, nil
}

func (s *Service) calculateTotals(items []CartItemResponse) CartTotals {
	var totals CartTotals

	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		if item.Product != nil {
			totals.SubTotal += item.Product.Price * int64(item.Quantity)
		}
	}

	return totals
}
