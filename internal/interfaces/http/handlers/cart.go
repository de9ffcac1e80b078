// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/cart"
	"github.com/your-org/bakery-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

const cartSessionCookie = "cart_session"

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg),
		config:      cfg,
	}
}

// ownerKey resolves the cart owner for this request: the user ID when
// authenticated, otherwise a session cookie minted on first use.
func (h *CartHandler) ownerKey(c *gin.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return userID
	}
	return h.getOrCreateSessionID(c)
}

func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	if sessionID, err := c.Cookie(cartSessionCookie); err == nil && sessionID != "" {
		return sessionID
	}

	sessionID := uuid.NewString()
	secure := h.config.IsProduction()
	c.SetCookie(cartSessionCookie, sessionID, 60*60*24*30, "/", "", secure, true)
	return sessionID
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cartResponse, err := h.cartService.GetItems(h.ownerKey(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cartResponse,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.cartService.AddToCart(h.ownerKey(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    item,
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.cartService.UpdateQuantity(c.Param("id"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	if item == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Item removed from cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    item,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	if err := h.cartService.RemoveItem(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(h.ownerKey(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// MergeCart handles POST /cart/merge. Requires authentication; folds the
// guest session cart into the account cart.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	sessionID, err := c.Cookie(cartSessionCookie)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusOK, gin.H{
			"message": "No guest cart to merge",
		})
		return
	}

	if err := h.cartService.MergeGuestCart(userID, sessionID); err != nil {
		respondError(c, err)
		return
	}

	cartResponse, err := h.cartService.GetItems(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged successfully",
		"data":    cartResponse,
	})
}
