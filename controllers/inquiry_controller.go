package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/middleware"
	"github.com/miyako-dev/support-desk-api/storage"
)

// CreateInquiryRequest represents the request body for submitting an inquiry
type CreateInquiryRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ListInquiries handles GET /api/inquiries - lists the caller's inquiries,
// newest first
func ListInquiries(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Could not extract user information")
		return
	}

	store := storage.New(config.GetDB())
	inquiries, err := store.GetInquiries(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch inquiries")
		return
	}

	c.JSON(http.StatusOK, inquiries)
}

// CreateInquiry handles POST /api/inquiries - submits a new support ticket
func CreateInquiry(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Could not extract user information")
		return
	}

	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "Invalid request body", "")
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		respondValidationError(c, "subject must be a non-empty string", "subject")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondValidationError(c, "message must be a non-empty string", "message")
		return
	}

	store := storage.New(config.GetDB())
	inquiry, err := store.CreateInquiry(userID, req.Subject, req.Message)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create inquiry")
		return
	}

	c.JSON(http.StatusCreated, inquiry)
}
