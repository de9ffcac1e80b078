// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Item represents one product saved to a user's wishlist. The composite
// unique index keeps a product on a given wishlist at most once.
type Item struct {
	ID        string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string           `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID string           `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time        `json:"created_at"`
	Product   *catalog.Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for wishlist items
func (Item) TableName() string {
	return "wishlist_items"
}

// BeforeCreate hook for wishlist items
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
