// internal/domain/catalog/addon_service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// AddOnService handles add-on and product association business logic
type AddOnService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAddOnService creates a new add-on service
func NewAddOnService(db *gorm.DB, cfg *config.Config) *AddOnService {
	return &AddOnService{
		db:     db,
		config: cfg,
	}
}

// AddOnCreateRequest represents add-on creation data
type AddOnCreateRequest struct {
	Name            string `json:"name" binding:"required"`
	AdditionalPrice int64  `json:"additional_price" binding:"min=0"`
}

// AddOnUpdateRequest represents add-on update data
type AddOnUpdateRequest struct {
	Name            *string `json:"name"`
	AdditionalPrice *int64  `json:"additional_price" binding:"omitempty,min=0"`
}

// ProductAddOnRequest associates an add-on with a product
type ProductAddOnRequest struct {
	ProductID string `json:"product_id"`
	AddOnID   string `json:"add_on_id" binding:"required"`
}

// GetAddOns retrieves all add-ons
func (s *AddOnService) GetAddOns() ([]AddOn, error) {
	var addOns []AddOn
	if err := s.db.Order("name ASC").Find(&addOns).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve add-ons: %w", err))
	}
	return addOns, nil
}

// CreateAddOn creates a new add-on
func (s *AddOnService) CreateAddOn(req *AddOnCreateRequest) (*AddOn, error) {
	addOn := AddOn{
		Name:            strings.TrimSpace(req.Name),
		AdditionalPrice: req.AdditionalPrice,
	}
	if err := s.db.Create(&addOn).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create add-on: %w", err))
	}
	return &addOn, nil
}

// UpdateAddOn updates an existing add-on. Historical order snapshots keep the
// name and price they were placed with.
func (s *AddOnService) UpdateAddOn(id string, req *AddOnUpdateRequest) (*AddOn, error) {
	var addOn AddOn
	if err := s.db.Where("id = ?", id).First(&addOn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("add-on")
		}
		return nil, apperror.Internal(err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.AdditionalPrice != nil {
		updates["additional_price"] = *req.AdditionalPrice
	}

	if err := s.db.Model(&addOn).Updates(updates).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update add-on: %w", err))
	}
	return &addOn, nil
}

// DeleteAddOn deletes an add-on. References from historical order item
// snapshots are detached (set to null) so those orders stay renderable from
// their own name/price copies.
func (s *AddOnService) DeleteAddOn(id string) error {
	var addOn AddOn
	if err := s.db.Where("id = ?", id).First(&addOn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("add-on")
		}
		return apperror.Internal(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("order_item_add_ons").
			Where("add_on_id = ?", id).
			Update("add_on_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("add_on_id = ?", id).Delete(&ProductAddOn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&addOn).Error
	})
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete add-on: %w", err))
	}
	return nil
}

// AssignAddOn associates an add-on with a product
func (s *AddOnService) AssignAddOn(req *ProductAddOnRequest) (*ProductAddOn, error) {
	var product Product
	if err := s.db.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(err)
	}

	var addOn AddOn
	if err := s.db.Where("id = ?", req.AddOnID).First(&addOn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("add-on")
		}
		return nil, apperror.Internal(err)
	}

	assoc := ProductAddOn{
		ProductID: req.ProductID,
		AddOnID:   req.AddOnID,
	}
	if err := s.db.Create(&assoc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("add-on is already assigned to this product")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to assign add-on: %w", err))
	}
	assoc.AddOn = addOn
	return &assoc, nil
}

// UnassignAddOn removes an add-on association from a product
func (s *AddOnService) UnassignAddOn(productID, addOnID string) error {
	result := s.db.Where("product_id = ? AND add_on_id = ?", productID, addOnID).Delete(&ProductAddOn{})
	if result.Error != nil {
		return apperror.Internal(fmt.Errorf("failed to unassign add-on: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product add-on association")
	}
	return nil
}
