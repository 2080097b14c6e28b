package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError writes the standard error body: {"message": ...}.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondValidationError writes a 400 with the offending field named:
// {"message": ..., "field": ...}. Validation rejects before any storage
// call is made.
func respondValidationError(c *gin.Context, message, field string) {
	body := gin.H{"message": message}
	if field != "" {
		body["field"] = field
	}
	c.JSON(http.StatusBadRequest, body)
}
