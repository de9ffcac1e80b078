// internal/domain/catalog/entity.go
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a product category
type Category struct {
	ID          string       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"not null;size:255" json:"name"`
	Description string       `gorm:"size:500" json:"description"`
	Icon        CategoryIcon `gorm:"not null;size:50" json:"icon"`
	CoverImage  string       `gorm:"size:500" json:"cover_image,omitempty"`
	Slug        string       `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	ItemCount   int          `gorm:"default:0" json:"item_count"` // cached product count
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product represents a bakery product
type Product struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"not null;size:255" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"` // Price in minor units
	// OriginalPrice, when set, marks the product as on sale
	OriginalPrice *int64    `json:"original_price,omitempty"`
	ImageURL      string    `gorm:"size:500" json:"image_url"`
	Duration      string    `gorm:"size:100" json:"duration,omitempty"` // prep-time label
	CategoryID    string    `gorm:"type:uuid;not null;index" json:"category_id"`
	IsFeatured    bool      `gorm:"default:false" json:"is_featured"`
	InStock       bool      `gorm:"default:true" json:"in_stock"`
	Rating        float64   `gorm:"default:5" json:"rating"`  // denormalized review mean
	Tags          string    `gorm:"size:500" json:"-"`        // comma-separated
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Category Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// ProductImage represents an additional product image
type ProductImage struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:idx_product_images_position" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	Position  int       `gorm:"not null;uniqueIndex:idx_product_images_position" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// AddOn represents an optional product extra (candles, toppings, messages)
type AddOn struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"not null;size:255" json:"name"`
	AdditionalPrice int64     `gorm:"not null;default:0" json:"additional_price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProductAddOn associates an add-on with a product
type ProductAddOn struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:idx_product_add_ons_pair" json:"product_id"`
	AddOnID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_product_add_ons_pair" json:"add_on_id"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AddOn   AddOn   `gorm:"foreignKey:AddOnID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"add_on,omitempty"`
}

// TableName overrides
func (Category) TableName() string     { return "categories" }
func (Product) TableName() string      { return "products" }
func (ProductImage) TableName() string { return "product_images" }
func (AddOn) TableName() string        { return "add_ons" }
func (ProductAddOn) TableName() string { return "product_add_ons" }

// BeforeCreate hooks assign UUIDs at insert time

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (a *AddOn) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (pa *ProductAddOn) BeforeCreate(tx *gorm.DB) error {
	if pa.ID == "" {
		pa.ID = uuid.NewString()
	}
	return nil
}

// Business methods for Product

// IsOnSale reports whether the product carries a marked-down price
func (p *Product) IsOnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// TagList returns the ordered tags
func (p *Product) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SetTags stores the ordered tag list
func (p *Product) SetTags(tags []string) {
	p.Tags = strings.Join(tags, ",")
}

// GetFormattedPrice returns the price as a float in major units
func (p *Product) GetFormattedPrice() float64 {
	return float64(p.Price) / 100
}
