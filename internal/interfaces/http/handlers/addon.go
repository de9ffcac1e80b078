// internal/interfaces/http/handlers/addon.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// AddOnHandler handles add-on endpoints
type AddOnHandler struct {
	addOnService *catalog.AddOnService
	config       *config.Config
}

// NewAddOnHandler creates a new add-on handler
func NewAddOnHandler(db *gorm.DB, cfg *config.Config) *AddOnHandler {
	return &AddOnHandler{
		addOnService: catalog.NewAddOnService(db, cfg),
		config:       cfg,
	}
}

// ListAddOns handles GET /add-ons
func (h *AddOnHandler) ListAddOns(c *gin.Context) {
	addOns, err := h.addOnService.GetAddOns()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": addOns,
	})
}

// CreateAddOn handles POST /admin/add-ons
func (h *AddOnHandler) CreateAddOn(c *gin.Context) {
	var req catalog.AddOnCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	addOn, err := h.addOnService.CreateAddOn(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Add-on created successfully",
		"data":    addOn,
	})
}

// UpdateAddOn handles PUT /admin/add-ons/:id
func (h *AddOnHandler) UpdateAddOn(c *gin.Context) {
	var req catalog.AddOnUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	addOn, err := h.addOnService.UpdateAddOn(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Add-on updated successfully",
		"data":    addOn,
	})
}

// DeleteAddOn handles DELETE /admin/add-ons/:id
func (h *AddOnHandler) DeleteAddOn(c *gin.Context) {
	if err := h.addOnService.DeleteAddOn(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Add-on deleted successfully",
	})
}

// AssignAddOn handles POST /admin/products/:id/add-ons
func (h *AddOnHandler) AssignAddOn(c *gin.Context) {
	var req catalog.ProductAddOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.ProductID = c.Param("id")

	assoc, err := h.addOnService.AssignAddOn(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Add-on assigned successfully",
		"data":    assoc,
	})
}

// UnassignAddOn handles DELETE /admin/products/:id/add-ons/:addOnId
func (h *AddOnHandler) UnassignAddOn(c *gin.Context) {
	if err := h.addOnService.UnassignAddOn(c.Param("id"), c.Param("addOnId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Add-on unassigned successfully",
	})
}
