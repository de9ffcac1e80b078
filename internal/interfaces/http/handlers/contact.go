// internal/interfaces/http/handlers/contact.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/notification"
)

// ContactHandler handles contact form submissions
type ContactHandler struct {
	dispatcher *notification.Dispatcher
	config     *config.Config
}

// NewContactHandler creates a new contact handler
func NewContactHandler(dispatcher *notification.Dispatcher, cfg *config.Config) *ContactHandler {
	return &ContactHandler{
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// SubmitInquiry handles POST /contact. Delivery to the store admin is
// best effort; the submission always succeeds once validated.
func (h *ContactHandler) SubmitInquiry(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	go h.dispatcher.NotifyContactInquiry(req.Name, req.Email, req.Message)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Thanks for reaching out, we will get back to you soon",
	})
}
