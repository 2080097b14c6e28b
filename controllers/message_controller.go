package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/middleware"
	"github.com/miyako-dev/support-desk-api/storage"
)

// SendMessageRequest represents the request body for sending a chat message
type SendMessageRequest struct {
	Content string `json:"content"`
}

// ListMessages handles GET /api/messages - lists the caller's chat thread
func ListMessages(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Could not extract user information")
		return
	}

	store := storage.New(config.GetDB())
	messages, err := store.GetMessages(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage handles POST /api/messages - sends a chat message as the caller
func SendMessage(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Could not extract user information")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request body", "")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondValidationError(c, "content must be a non-empty string", "content")
		return
	}

	store := storage.New(config.GetDB())
	message, err := store.CreateMessage(userID, req.Content, false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create message")
		return
	}

	c.JSON(http.StatusCreated, message)
}
