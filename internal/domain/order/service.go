// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Notifier receives order lifecycle events. Dispatch is best effort: the
// return value is advisory and never affects the order operation itself.
type Notifier interface {
	NotifyOrderPlaced(order *Order) bool
	NotifyStatusChanged(order *Order) bool
}

// Service handles order business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	notifier Notifier
	log      *logrus.Logger
	// syncNotify runs notification dispatch inline instead of in a
	// goroutine; used by tests.
	syncNotify bool
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		notifier: notifier,
		log:      log,
	}
}

// PlaceOrderLineAddOn selects an add-on for a line item
type PlaceOrderLineAddOn struct {
	AddOnID string `json:"add_on_id" binding:"required"`
}

// PlaceOrderLine represents one submitted line item. Unit price and line
// total arrive from the client and are stored as submitted; see
// StoreConfig.VerifyPricing for the optional server-side check.
type PlaceOrderLine struct {
	ProductID string                `json:"product_id" binding:"required"`
	Quantity  int                   `json:"quantity" binding:"required,min=1"`
	UnitPrice int64                 `json:"unit_price" binding:"min=0"`
	LineTotal int64                 `json:"line_total" binding:"min=0"`
	AddOns    []PlaceOrderLineAddOn `json:"add_ons"`
}

// PlaceOrderRequest represents order creation data
type PlaceOrderRequest struct {
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerAddress string           `json:"customer_address"`
	DeliveryFee     int64            `json:"delivery_fee" binding:"min=0"`
	Total           int64            `json:"total" binding:"min=0"`
	Items           []PlaceOrderLine `json:"items"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    Status `form:"status"`
	SortOrder string `form:"sort_order,default=desc"`
}

// OrderListResponse represents orders with pagination
type OrderListResponse struct {
	Orders     []Order            `json:"orders"`
	Pagination catalog.Pagination `json:"pagination"`
}

// PlaceOrder validates the submission, creates the order and its line item
// and add-on snapshots in a single transaction, and triggers best-effort
// notifications outside the critical path.
func (s *Service) PlaceOrder(req *PlaceOrderRequest) (*Order, error) {
	if err := s.validatePlacement(req); err != nil {
		return nil, err
	}

	newOrder := Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		DeliveryFee:     req.DeliveryFee,
		Total:           req.Total,
		Status:          StatusPlaced,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newOrder).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range req.Items {
			item := OrderItem{
				OrderID:   newOrder.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			for _, selection := range line.AddOns {
				// Snapshot the add-on name and price as they are right now.
				var addOn catalog.AddOn
				if err := tx.Where("id = ?", selection.AddOnID).First(&addOn).Error; err != nil {
					return fmt.Errorf("add-on %s not found: %w", selection.AddOnID, err)
				}

				snapshot := OrderItemAddOn{
					OrderItemID: item.ID,
					AddOnID:     &addOn.ID,
					AddOnName:   addOn.Name,
					AddOnPrice:  addOn.AdditionalPrice,
				}
				if err := tx.Create(&snapshot).Error; err != nil {
					return fmt.Errorf("failed to create add-on snapshot: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.dispatch(newOrder.ID, func(populated *Order) {
		if ok := s.notifier.NotifyOrderPlaced(populated); !ok {
			s.log.WithField("order_id", populated.ID).Warn("order placed notifications failed on all legs")
		}
	})

	return &newOrder, nil
}

// GetOrder retrieves an order with its items, products and add-on snapshots
func (s *Service) GetOrder(id string) (*Order, error) {
	var result Order
	err := s.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.AddOns").
		Where("id = ?", id).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve order: %w", err))
	}
	return &result, nil
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	var orders []Order
	var total int64

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{}).
		Preload("Items").
		Preload("Items.AddOns")

	if req.Status != "" {
		if !req.Status.Valid() {
			return nil, apperror.Validation("unknown order status", map[string]string{
				"status": fmt.Sprintf("%q is not a valid order status", req.Status),
			})
		}
		query = query.Where("status = ?", req.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to count orders: %w", err))
	}

	sortOrder := "DESC"
	if req.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at " + sortOrder).Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve orders: %w", err))
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: catalog.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// SetStatus updates the order status and dispatches a best-effort status
// notification. Membership in the five-value enum is always enforced; the
// predecessor graph only when configured.
func (s *Service) SetStatus(orderID string, newStatus Status) (*Order, error) {
	if !newStatus.Valid() {
		return nil, apperror.Validation("unknown order status", map[string]string{
			"status": fmt.Sprintf("%q is not one of placed, in_progress, delivered, completed, canceled", newStatus),
		})
	}

	var current Order
	if err := s.db.Where("id = ?", orderID).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order")
		}
		return nil, apperror.Internal(err)
	}

	if s.config.Store.EnforceStatusFlow && !isValidTransition(current.Status, newStatus) {
		return nil, apperror.Validation(
			fmt.Sprintf("cannot transition order from %s to %s", current.Status, newStatus), nil)
	}

	if err := s.db.Model(&current).Update("status", newStatus).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update order status: %w", err))
	}
	current.Status = newStatus

	s.dispatch(orderID, func(populated *Order) {
		if ok := s.notifier.NotifyStatusChanged(populated); !ok {
			s.log.WithFields(logrus.Fields{
				"order_id": populated.ID,
				"status":   populated.Status,
			}).Warn("status notification failed")
		}
	})

	return &current, nil
}

// DeleteOrder removes an order and cascades to its items and add-on
// snapshots. No status precondition applies.
func (s *Service) DeleteOrder(orderID string) error {
	var target Order
	if err := s.db.Where("id = ?", orderID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("order")
		}
		return apperror.Internal(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&OrderItem{}).Select("id").Where("order_id = ?", orderID)
		if err := tx.Where("order_item_id IN (?)", itemIDs).Delete(&OrderItemAddOn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&target).Error
	})
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete order: %w", err))
	}
	return nil
}

// validatePlacement checks contact fields, item presence and item shape
// before any mutation happens.
func (s *Service) validatePlacement(req *PlaceOrderRequest) error {
	fields := make(map[string]string)
	if strings.TrimSpace(req.CustomerName) == "" {
		fields["customer_name"] = "required"
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		fields["customer_email"] = "required"
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		fields["customer_phone"] = "required"
	}
	if strings.TrimSpace(req.CustomerAddress) == "" {
		fields["customer_address"] = "required"
	}
	if len(fields) > 0 {
		return apperror.Validation("missing customer contact details", fields)
	}

	if s.config.Store.VerifyPricing && req.DeliveryFee != s.config.Store.DeliveryFee {
		return apperror.Validation("submitted delivery fee does not match the configured fee", map[string]string{
			"delivery_fee": fmt.Sprintf("expected %d", s.config.Store.DeliveryFee),
		})
	}

	if len(req.Items) == 0 {
		return apperror.Validation("order must contain at least one item", map[string]string{
			"items": "required",
		})
	}

	for i, line := range req.Items {
		if line.ProductID == "" {
			return apperror.Validation("invalid order item", map[string]string{
				fmt.Sprintf("items[%d].product_id", i): "required",
			})
		}
		if line.Quantity < 1 {
			return apperror.Validation("invalid order item", map[string]string{
				fmt.Sprintf("items[%d].quantity", i): "must be a positive integer",
			})
		}
		if line.UnitPrice < 0 || line.LineTotal < 0 {
			return apperror.Validation("invalid order item", map[string]string{
				fmt.Sprintf("items[%d]", i): "prices must not be negative",
			})
		}

		var product catalog.Product
		if err := s.db.Where("id = ?", line.ProductID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("product")
			}
			return apperror.Internal(err)
		}

		if s.config.Store.VerifyPricing && line.UnitPrice != product.Price {
			return apperror.Validation("submitted price does not match the catalog", map[string]string{
				fmt.Sprintf("items[%d].unit_price", i): fmt.Sprintf("expected %d", product.Price),
			})
		}
	}

	return nil
}

// dispatch re-fetches the populated order and hands it to fn, normally on
// its own goroutine. Failures here never reach the caller.
func (s *Service) dispatch(orderID string, fn func(*Order)) {
	if s.notifier == nil {
		return
	}

	run := func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.WithField("order_id", orderID).Errorf("notification dispatch panicked: %v", r)
			}
		}()

		populated, err := s.GetOrder(orderID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"order_id": orderID,
				"error":    err,
			}).Warn("failed to load order for notification")
			return
		}
		fn(populated)
	}

	if s.syncNotify {
		run()
		return
	}
	go run()
}

// isValidTransition implements the optional linear transition graph with a
// side exit to canceled from any non-terminal state.
func isValidTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if to == StatusCanceled {
		return from != StatusCompleted && from != StatusCanceled
	}
	switch from {
	case StatusPlaced:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusDelivered
	case StatusDelivered:
		return to == StatusCompleted
	default:
		return false
	}
}
