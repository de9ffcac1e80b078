// internal/interfaces/http/handlers/common.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
)

// respondError writes a service error with its mapped HTTP status. Field
// level validation detail rides along under "details" when present.
func respondError(c *gin.Context, err error) {
	body := gin.H{
		"error": apperror.Message(err),
	}
	if fields := apperror.FieldsOf(err); len(fields) > 0 {
		body["details"] = fields
	}
	c.JSON(apperror.HTTPStatus(err), body)
}

// respondBindError writes a 400 for malformed request bodies
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
