package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/storage"
)

// AdminReplyRequest represents the request body for an admin chat reply
type AdminReplyRequest struct {
	Content string `json:"content"`
}

// InquiryReplyRequest represents the request body for an admin inquiry reply
type InquiryReplyRequest struct {
	Reply string `json:"reply"`
}

// ListChatUsers handles GET /api/admin/users - lists every user with at
// least one message, most recently active first
func ListChatUsers(c *gin.Context) {
	store := storage.New(config.GetDB())
	users, err := store.GetUsersWithChats()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListUserMessages handles GET /api/admin/users/:userId/messages - the
// admin view of one user's chat thread
func ListUserMessages(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		respondValidationError(c, "userId is required", "userId")
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

// ReplyToUser handles POST /api/admin/users/:userId/messages - sends an
// admin chat message and notifies the user. The message and its
// notification are written in one transaction.
func ReplyToUser(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		respondValidationError(c, "userId is required", "userId")
		return
	}

	var req AdminReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request body", "")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondValidationError(c, "content must be a non-empty string", "content")
		return
	}

	store := storage.New(config.GetDB())
	message, err := store.ReplyToUser(userID, req.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to send reply")
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListAllInquiries handles GET /api/admin/inquiries - every inquiry
// across all users, newest first
func ListAllInquiries(c *gin.Context) {
	store := storage.New(config.GetDB())
	inquiries, err := store.GetInquiries("")
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch inquiries")
		return
	}

	c.JSON(http.StatusOK, inquiries)
}

// ReplyToInquiry handles POST /api/admin/inquiries/:id/reply - sets the
// reply, flips the inquiry to "replied" and notifies its owner, all in
// one transaction.
func ReplyToInquiry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "id must be an integer", "id")
		return
	}

	var req InquiryReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request body", "")
		return
	}
	if strings.TrimSpace(req.Reply) == "" {
		respondValidationError(c, "reply must be a non-empty string", "reply")
		return
	}

	store := storage.New(config.GetDB())
	inquiry, err := store.ReplyToInquiry(uint(id), req.Reply)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to reply to inquiry")
		return
	}

	c.JSON(http.StatusOK, inquiry)
}
