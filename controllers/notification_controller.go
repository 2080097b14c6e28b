package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/middleware"
	"github.com/miyako-dev/support-desk-api/storage"
)

// ListNotifications handles GET /api/notifications - lists the caller's
// notifications, newest first
func ListNotifications(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Could not extract user information")
		return
	}

	store := storage.New(config.GetDB())
	notifications, err := store.GetNotifications(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read.
// Marking an already-read notification again is a no-op, as is an id
// that doesn't exist.
func MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "id must be an integer", "id")
		return
	}

	store := storage.New(config.GetDB())
	if err := store.MarkNotificationRead(uint(id)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to mark notification read")
		return
	}

	c.Status(http.StatusNoContent)
}
