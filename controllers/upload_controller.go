package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/middleware"
	"github.com/miyako-dev/support-desk-api/services"
	"github.com/miyako-dev/support-desk-api/storage"
	"github.com/miyako-dev/support-desk-api/utils"
)

// UploadAvatar handles POST /api/users/me/avatar - uploads a profile
// image (multipart field "image") and stores its URL on the user.
func UploadAvatar(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Could not extract user information")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondValidationError(c, "image file is required", "image")
		return
	}

	imageService := services.GetImageService()
	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondValidationError(c, uploadErr.Message, "image")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	imageURL, err := imageService.GetImageURL(imageKey)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to generate image URL")
		return
	}

	store := storage.New(config.GetDB())
	user, err := store.UpdateUserProfileImage(userID, imageURL)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(c, http.StatusNotFound, "User profile not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to update profile image")
		return
	}

	c.JSON(http.StatusOK, user)
}
