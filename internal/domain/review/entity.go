// internal/domain/review/entity.go
package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review represents a customer review of a product. A user may review a
// given product at most once, enforced by the composite unique index.
type Review struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_reviews_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_reviews_user_product"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for Review model
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate hook for Review model
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RatingStats is the aggregate shown on product pages. Average is 0 when
// the product has no reviews.
type RatingStats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
