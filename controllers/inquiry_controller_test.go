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

func TestCreateInquiry(t *testing.T) {
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
			name:           "Valid inquiry",
			requestBody:    map[string]interface{}{"subject": "Pricing", "message": "How much?"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing subject",
			requestBody:    map[string]interface{}{"message": "How much?"},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "subject",
		},
		{
			name:           "Missing message",
			requestBody:    map[string]interface{}{"subject": "Pricing"},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "message",
		},
		{
			name:           "Empty subject",
			requestBody:    map[string]interface{}{"subject": "  ", "message": "How much?"},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "subject",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/api/inquiries", mockAuthMiddleware(alice.ID, "", "mock-token"), CreateInquiry)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/api/inquiries", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "Pricing", response["subject"])
				assert.Equal(t, "How much?", response["message"])
				assert.Equal(t, models.InquiryStatusPending, response["status"])
				assert.Nil(t, response["reply"])
				assert.Equal(t, alice.ID, response["userId"])
			} else {
				assert.NotEmpty(t, response["message"])
				assert.Equal(t, tt.expectedField, response["field"])
			}
		})
	}
}

func TestListInquiries(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	alice := models.User{ID: "auth0|alice", DisplayName: "Alice", Email: "alice@example.com"}
	db.Create(&alice)
	bob := models.User{ID: "auth0|bob", DisplayName: "Bob", Email: "bob@example.com"}
	db.Create(&bob)

	base := time.Now().Add(-time.Hour)
	db.Create(&models.Inquiry{UserID: alice.ID, Subject: "Old", Message: "first", Status: models.InquiryStatusPending, CreatedAt: base})
	db.Create(&models.Inquiry{UserID: alice.ID, Subject: "New", Message: "second", Status: models.InquiryStatusPending, CreatedAt: base.Add(time.Minute)})
	db.Create(&models.Inquiry{UserID: bob.ID, Subject: "Bob's", Message: "other", Status: models.InquiryStatusPending, CreatedAt: base})

	router := setupTestRouter()
	router.GET("/api/inquiries", mockAuthMiddleware(alice.ID, "", "mock-token"), ListInquiries)

	req, _ := http.NewRequest(http.MethodGet, "/api/inquiries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var inquiries []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &inquiries)
	assert.NoError(t, err)

	// Only alice's inquiries, newest first
	assert.Len(t, inquiries, 2)
	assert.Equal(t, "New", inquiries[0]["subject"])
	assert.Equal(t, "Old", inquiries[1]["subject"])
}

func TestListInquiriesUnauthenticated(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/api/inquiries", ListInquiries)

	req, _ := http.NewRequest(http.MethodGet, "/api/inquiries", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
