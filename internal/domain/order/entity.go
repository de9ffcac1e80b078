// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Status represents the order status
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusInProgress Status = "in_progress"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
)

// allStatuses is the full value set; membership is always enforced
var allStatuses = map[Status]bool{
	StatusPlaced:     true,
	StatusInProgress: true,
	StatusDelivered:  true,
	StatusCompleted:  true,
	StatusCanceled:   true,
}

// Valid reports whether s is one of the five order statuses
func (s Status) Valid() bool {
	return allStatuses[s]
}

// Order represents a placed order. Customer contact fields are a snapshot
// taken at order time, deliberately decoupled from the user entity so the
// order survives profile edits and guest checkout.
type Order struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName    string    `gorm:"not null;size:255" json:"customer_name"`
	CustomerEmail   string    `gorm:"not null;size:255" json:"customer_email"`
	CustomerPhone   string    `gorm:"not null;size:50" json:"customer_phone"`
	CustomerAddress string    `gorm:"not null;size:500" json:"customer_address"`
	DeliveryFee     int64     `gorm:"not null;default:0" json:"delivery_fee"`
	Total           int64     `gorm:"not null" json:"total"` // In minor units
	Status          Status    `gorm:"not null;default:'placed';size:20;index" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem represents one line of an order with its price snapshot.
// UnitPrice and LineTotal are frozen at purchase time; the product row may
// change or go out of stock afterwards without affecting the order.
type OrderItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string    `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string    `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	LineTotal int64     `gorm:"not null" json:"line_total"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Product *catalog.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"product,omitempty"`
	AddOns  []OrderItemAddOn `gorm:"foreignKey:OrderItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"add_ons,omitempty"`
}

// OrderItemAddOn is the add-on snapshot for a line item. AddOnID goes null
// when the live add-on is deleted; the denormalized name and price keep the
// historical order renderable regardless.
type OrderItemAddOn struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	OrderItemID string    `gorm:"type:uuid;not null;index" json:"order_item_id"`
	AddOnID     *string   `gorm:"type:uuid;index" json:"add_on_id,omitempty"`
	AddOnName   string    `gorm:"not null;size:255" json:"add_on_name"`
	AddOnPrice  int64     `gorm:"not null" json:"add_on_price"`
	CreatedAt   time.Time `json:"created_at"`

	AddOn *catalog.AddOn `gorm:"foreignKey:AddOnID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// TableName overrides
func (Order) TableName() string          { return "orders" }
func (OrderItem) TableName() string      { return "order_items" }
func (OrderItemAddOn) TableName() string { return "order_item_add_ons" }

// BeforeCreate hooks assign UUIDs at insert time

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (a *OrderItemAddOn) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// GetFormattedTotal returns the total in major units
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.Total) / 100
}

// IsTerminal reports whether the order reached a final state
func (o *Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCanceled
}
