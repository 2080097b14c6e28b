package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/models"
	"github.com/miyako-dev/support-desk-api/services"
	"github.com/stretchr/testify/assert"
)

// setupMockIdentityServer simulates the identity provider's /userinfo
// endpoint, keyed by access token.
func setupMockIdentityServer(userInfoMap map[string]*services.UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if len(authHeader) < 8 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := authHeader[7:] // strip "Bearer "

		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

func TestGetCurrentUserCreatesProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	server := setupMockIdentityServer(map[string]*services.UserInfo{
		"alice-token": {
			Sub:     "auth0|alice",
			Name:    "Alice",
			Email:   "alice@example.com",
			Picture: "https://cdn.example.com/alice.png",
		},
	})
	defer server.Close()

	config.SetConfig(&config.Config{
		DatabaseURL: "test",
		Auth0Domain: server.URL,
	})

	router := setupTestRouter()
	router.GET("/api/auth/user", mockAuthMiddleware("auth0|alice", "", "alice-token"), GetCurrentUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/user", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "auth0|alice", response["id"])
	assert.Equal(t, "Alice", response["displayName"])
	assert.Equal(t, "alice@example.com", response["email"])
	assert.Equal(t, "https://cdn.example.com/alice.png", response["profileImageUrl"])

	// The user now exists in storage
	var user models.User
	assert.NoError(t, db.First(&user, "id = ?", "auth0|alice").Error)
}

func TestGetCurrentUserRefreshesProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	// Pre-existing user with an outdated display name
	db.Create(&models.User{ID: "auth0|alice", DisplayName: "Old Name", Email: "alice@example.com"})

	server := setupMockIdentityServer(map[string]*services.UserInfo{
		"alice-token": {
			Sub:   "auth0|alice",
			Name:  "Alice Cooper",
			Email: "alice@example.com",
		},
	})
	defer server.Close()

	config.SetConfig(&config.Config{
		DatabaseURL: "test",
		Auth0Domain: server.URL,
	})

	router := setupTestRouter()
	router.GET("/api/auth/user", mockAuthMiddleware("auth0|alice", "", "alice-token"), GetCurrentUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/user", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Alice Cooper", response["displayName"])

	// Still exactly one row; the id never changes
	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetCurrentUserProviderFailure(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	server := setupMockIdentityServer(map[string]*services.UserInfo{})
	defer server.Close()

	config.SetConfig(&config.Config{
		DatabaseURL: "test",
		Auth0Domain: server.URL,
	})

	router := setupTestRouter()
	router.GET("/api/auth/user", mockAuthMiddleware("auth0|alice", "", "unknown-token"), GetCurrentUser)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/user", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
