package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miyako-dev/support-desk-api/config"
	"github.com/miyako-dev/support-desk-api/models"
	"github.com/stretchr/testify/assert"
)

func TestListMessages(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	alice := models.User{ID: "auth0|alice", DisplayName: "Alice", Email: "alice@example.com"}
	db.Create(&alice)
	bob := models.User{ID: "auth0|bob", DisplayName: "Bob", Email: "bob@example.com"}
	db.Create(&bob)

	base := time.Now().Add(-time.Hour)
	db.Create(&models.Message{UserID: alice.ID, Content: "Hello", CreatedAt: base})
	db.Create(&models.Message{UserID: alice.ID, Content: "Hi there", IsFromAdmin: true, CreatedAt: base.Add(time.Minute)})
	db.Create(&models.Message{UserID: bob.ID, Content: "Bob's message", CreatedAt: base})

	router := setupTestRouter()
	router.GET("/api/messages", mockAuthMiddleware(alice.ID, "", "mock-token"), ListMessages)

	req, _ := http.NewRequest(http.MethodGet, "/api/messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var messages []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &messages)
	assert.NoError(t, err)

	// Only alice's messages, ascending by createdAt
	assert.Len(t, messages, 2)
	assert.Equal(t, "Hello", messages[0]["content"])
	assert.Equal(t, false, messages[0]["isFromAdmin"])
	assert.Equal(t, "Hi there", messages[1]["content"])
	assert.Equal(t, true, messages[1]["isFromAdmin"])
	for _, m := range messages {
		assert.Equal(t, alice.ID, m["userId"])
	}
}

func TestListMessagesEmpty(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/api/messages", mockAuthMiddleware("auth0|alice", "", "mock-token"), ListMessages)

	req, _ := http.NewRequest(http.MethodGet, "/api/messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// Empty array, not null
	assert.Equal(t, "[]", w.Body.String())
}

func TestListMessagesUnauthenticated(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/api/messages", ListMessages)

	req, _ := http.NewRequest(http.MethodGet, "/api/messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendMessage(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	alice := models.User{ID: "auth0|alice", DisplayName: "Alice", Email: "alice@example.com"}
	db.Create(&alice)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedField  string
	}{
		{
			name:           "Valid message",
			requestBody:    map[string]interface{}{"content": "Hello"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing content",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "content",
		},
		{
			name:           "Empty content",
			requestBody:    map[string]interface{}{"content": ""},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "content",
		},
		{
			name:           "Whitespace-only content",
			requestBody:    map[string]interface{}{"content": "   "},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/api/messages", mockAuthMiddleware(alice.ID, "", "mock-token"), SendMessage)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/api/messages", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "Hello", response["content"])
				assert.Equal(t, alice.ID, response["userId"])
				assert.Equal(t, false, response["isFromAdmin"])
				assert.NotZero(t, response["id"])
			} else {
				assert.NotEmpty(t, response["message"])
				assert.Equal(t, tt.expectedField, response["field"])
			}
		})
	}
}

func TestSendMessageRejectedBeforeStorage(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	alice := models.User{ID: "auth0|alice", DisplayName: "Alice", Email: "alice@example.com"}
	db.Create(&alice)

	router := setupTestRouter()
	router.POST("/api/messages", mockAuthMiddleware(alice.ID, "", "mock-token"), SendMessage)

	body, _ := json.Marshal(map[string]interface{}{"content": ""})
	req, _ := http.NewRequest(http.MethodPost, "/api/messages", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was written
	var count int64
	db.Model(&models.Message{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
