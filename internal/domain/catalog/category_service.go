// internal/domain/catalog/category_service.go
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{
		db:     db,
		config: cfg,
	}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"required"`
	CoverImage  string `json:"cover_image"`
	Slug        string `json:"slug"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	CoverImage  *string `json:"cover_image"`
	Slug        *string `json:"slug"`
}

// GetCategories retrieves all categories ordered by name
func (s *CategoryService) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve categories: %w", err))
	}
	return categories, nil
}

// GetCategoryBySlug retrieves a category by its slug
func (s *CategoryService) GetCategoryBySlug(slug string) (*Category, error) {
	var category Category
	if err := s.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category")
		}
		return nil, apperror.Internal(err)
	}
	return &category, nil
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	icon := CategoryIcon(req.Icon)
	if !icon.Valid() {
		return nil, apperror.Validation("unknown category icon", map[string]string{
			"icon": fmt.Sprintf("%q is not a recognized icon identifier", req.Icon),
		})
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	category := Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Icon:        icon,
		CoverImage:  req.CoverImage,
		Slug:        slug,
	}

	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("a category with this slug already exists")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to create category: %w", err))
	}

	return &category, nil
}

// UpdateCategory updates an existing category
func (s *CategoryService) UpdateCategory(id string, req *CategoryUpdateRequest) (*Category, error) {
	var category Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category")
		}
		return nil, apperror.Internal(err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Icon != nil {
		icon := CategoryIcon(*req.Icon)
		if !icon.Valid() {
			return nil, apperror.Validation("unknown category icon", map[string]string{
				"icon": fmt.Sprintf("%q is not a recognized icon identifier", *req.Icon),
			})
		}
		updates["icon"] = icon
	}
	if req.CoverImage != nil {
		updates["cover_image"] = *req.CoverImage
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}

	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("a category with this slug already exists")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to update category: %w", err))
	}

	return &category, nil
}

// DeleteCategory deletes a category. Categories that still hold products are
// protected; products must be reassigned first.
func (s *CategoryService) DeleteCategory(id string) error {
	var category Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("category")
		}
		return apperror.Internal(err)
	}

	var productCount int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return apperror.Internal(err)
	}
	if productCount > 0 {
		return apperror.Conflict("category still has products; reassign them before deleting")
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete category: %w", err))
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL slug
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
