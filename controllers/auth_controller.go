package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/middleware"
	"github.com/miyako-dev/support-desk-api/models"
	"github.com/miyako-dev/support-desk-api/services"
	"github.com/miyako-dev/support-desk-api/storage"
)

// GetCurrentUser handles GET /api/auth/user - returns the caller's
// profile, creating or refreshing it from the identity provider's
// /userinfo endpoint. The id is the token's sub claim and never
// changes; only the profile fields are refreshed.
func GetCurrentUser(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Could not extract user information")
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Access token not found")
		return
	}

	cfg := config.GetConfig()
	identityService := services.NewIdentityService(cfg)
	userInfo, err := identityService.GetUserInfo(accessToken)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch user information from identity provider")
		return
	}

	store := storage.New(config.GetDB())
	user, err := store.UpsertUser(&models.User{
		ID:              userID,
		DisplayName:     userInfo.Name,
		Email:           userInfo.Email,
		ProfileImageURL: userInfo.Picture,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save user profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
