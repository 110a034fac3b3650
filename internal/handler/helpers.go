package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/pkg/apperr"
)

// respondError maps a classified service error to its HTTP status.
// Unclassified errors are logged and reported as internal.
func respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.Forbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.Conflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
