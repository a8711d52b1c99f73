package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
)

// respondError maps service errors to status codes. Unexpected errors are
// attached to the context for ErrorLogger and hidden from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errors.NotValid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errors.NotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found!"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal storage error"})
	}
}
