// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem represents one (owner, product) pair in a cart. The owner key is
// the user id for authenticated carts and the guest session id otherwise;
// the unique index is the guard against duplicate-insert races.
type CartItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerKey  string    `gorm:"not null;size:64;uniqueIndex:idx_cart_owner_product" json:"-"`
	ProductID string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_owner_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns the UUID at insert time
func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
