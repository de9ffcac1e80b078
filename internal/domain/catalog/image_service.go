// internal/domain/catalog/image_service.go
package catalog

import (
	"errors"
	"fmt"

	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// ProductImageRequest represents product image creation data
type ProductImageRequest struct {
	ProductID string `json:"product_id"`
	URL       string `json:"url" binding:"required"`
	Position  int    `json:"position" binding:"min=0"`
}

// GetProductImages retrieves the images for a product ordered by position
func (s *Service) GetProductImages(productID string) ([]ProductImage, error) {
	var images []ProductImage
	err := s.db.Where("product_id = ?", productID).Order("position ASC").Find(&images).Error
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve product images: %w", err))
	}
	return images, nil
}

// AddProductImage attaches an image to a product. Positions are unique per
// product; a position collision is a conflict, not a reorder.
func (s *Service) AddProductImage(req *ProductImageRequest) (*ProductImage, error) {
	var product Product
	if err := s.db.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(err)
	}

	image := ProductImage{
		ProductID: req.ProductID,
		URL:       req.URL,
		Position:  req.Position,
	}
	if err := s.db.Create(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("another image already occupies this position")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to add product image: %w", err))
	}
	return &image, nil
}

// DeleteProductImage removes an image by id
func (s *Service) DeleteProductImage(id string) error {
	result := s.db.Where("id = ?", id).Delete(&ProductImage{})
	if result.Error != nil {
		return apperror.Internal(fmt.Errorf("failed to delete product image: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product image")
	}
	return nil
}
