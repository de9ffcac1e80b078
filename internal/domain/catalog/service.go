// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles product catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID string `form:"category_id"`
	Category   string `form:"category"` // category slug
	Search     string `form:"search"`
	Featured   *bool  `form:"featured"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" binding:"required,min=1"`
	OriginalPrice *int64   `json:"original_price"`
	ImageURL      string   `json:"image_url"`
	Duration      string   `json:"duration"`
	CategoryID    string   `json:"category_id" binding:"required"`
	IsFeatured    bool     `json:"is_featured"`
	InStock       bool     `json:"in_stock"`
	Tags          []string `json:"tags"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *int64    `json:"price" binding:"omitempty,min=1"`
	OriginalPrice *int64    `json:"original_price"`
	ImageURL      *string   `json:"image_url"`
	Duration      *string   `json:"duration"`
	CategoryID    *string   `json:"category_id"`
	IsFeatured    *bool     `json:"is_featured"`
	InStock       *bool     `json:"in_stock"`
	Tags          *[]string `json:"tags"`
}

// ProductView is a product with its ordered tag list and add-ons expanded
type ProductView struct {
	Product
	TagList []string `json:"tags"`
	AddOns  []AddOn  `json:"add_ons"`
}

// ProductListResponse represents a paginated product list
type ProductListResponse struct {
	Products   []ProductView `json:"products"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductListResponse, error) {
	var products []Product
	var total int64

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if req.CategoryID != "" {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Category != "" {
		query = query.Where("category_id IN (?)",
			s.db.Model(&Category{}).Select("id").Where("slug = ?", req.Category))
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?", search, search, search)
	}

	if req.Featured != nil {
		query = query.Where("is_featured = ?", *req.Featured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to count products: %w", err))
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve products: %w", err))
	}

	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = s.buildProductView(&products[i])
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductListResponse{
		Products: views,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID with images and add-ons
func (s *Service) GetProduct(id string) (*ProductView, error) {
	var product Product
	result := s.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve product: %w", result.Error))
	}

	view := s.buildProductView(&product)
	return &view, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*ProductView, error) {
	if req.OriginalPrice != nil && *req.OriginalPrice < req.Price {
		return nil, apperror.Validation("original price must not be below the sale price", map[string]string{
			"original_price": "must be greater than or equal to price",
		})
	}

	var category Category
	if err := s.db.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category")
		}
		return nil, apperror.Internal(err)
	}

	product := Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		ImageURL:      req.ImageURL,
		Duration:      req.Duration,
		CategoryID:    req.CategoryID,
		IsFeatured:    req.IsFeatured,
		InStock:       req.InStock,
		Rating:        5,
	}
	product.SetTags(req.Tags)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return s.refreshCategoryCount(tx, product.CategoryID)
	})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to create product: %w", err))
	}

	return s.GetProduct(product.ID)
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id string, req *ProductUpdateRequest) (*ProductView, error) {
	var product Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(err)
	}

	previousCategory := product.CategoryID

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		price := product.Price
		if req.Price != nil {
			price = *req.Price
		}
		if *req.OriginalPrice < price {
			return nil, apperror.Validation("original price must not be below the sale price", map[string]string{
				"original_price": "must be greater than or equal to price",
			})
		}
		updates["original_price"] = *req.OriginalPrice
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.CategoryID != nil {
		var category Category
		if err := s.db.Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			return nil, apperror.NotFound("category")
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}
	if req.Tags != nil {
		updates["tags"] = strings.Join(*req.Tags, ",")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		if req.CategoryID != nil && *req.CategoryID != previousCategory {
			if err := s.refreshCategoryCount(tx, previousCategory); err != nil {
				return err
			}
			return s.refreshCategoryCount(tx, *req.CategoryID)
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update product: %w", err))
	}

	return s.GetProduct(id)
}

// DeleteProduct deletes a product. Products referenced by order items are
// protected: historical orders must keep their line items resolvable.
func (s *Service) DeleteProduct(id string) error {
	var product Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("product")
		}
		return apperror.Internal(err)
	}

	var orderRefs int64
	if err := s.db.Table("order_items").Where("product_id = ?", id).Count(&orderRefs).Error; err != nil {
		return apperror.Internal(err)
	}
	if orderRefs > 0 {
		return apperror.Conflict("product is referenced by existing orders and cannot be deleted")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&ProductAddOn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&Product{}).Error; err != nil {
			return err
		}
		return s.refreshCategoryCount(tx, product.CategoryID)
	})
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete product: %w", err))
	}
	return nil
}

// GetProductAddOns retrieves the add-ons associated with a product
func (s *Service) GetProductAddOns(productID string) ([]AddOn, error) {
	var addOns []AddOn
	err := s.db.
		Joins("JOIN product_add_ons ON product_add_ons.add_on_id = add_ons.id").
		Where("product_add_ons.product_id = ?", productID).
		Order("add_ons.name ASC").
		Find(&addOns).Error
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve product add-ons: %w", err))
	}
	return addOns, nil
}

// refreshCategoryCount recomputes the cached item count for a category
func (s *Service) refreshCategoryCount(tx *gorm.DB, categoryID string) error {
	var count int64
	if err := tx.Model(&Product{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&Category{}).Where("id = ?", categoryID).Update("item_count", count).Error
}

func (s *Service) buildProductView(product *Product) ProductView {
	view := ProductView{
		Product: *product,
		TagList: product.TagList(),
	}
	if view.TagList == nil {
		view.TagList = []string{}
	}
	addOns, err := s.GetProductAddOns(product.ID)
	if err == nil {
		view.AddOns = addOns
	}
	if view.AddOns == nil {
		view.AddOns = []AddOn{}
	}
	return view
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"name":       true,
		"price":      true,
		"rating":     true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
