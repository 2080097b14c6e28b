// Package client implements the consumer side of the support desk API:
// a typed HTTP client plus the fixed-interval polling that keeps a view
// eventually consistent with server state without a push channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/miyako-dev/support-desk-api/models"
	"github.com/miyako-dev/support-desk-api/storage"
)

// APIError is a decoded error body from the server.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d: %s (field %s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a typed JSON client for the support desk API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the API at baseURL, authenticating every
// request with the given bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Health probes the server's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// CurrentUser fetches the caller's profile, upserting it server-side.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Messages fetches the caller's chat thread, oldest first.
func (c *Client) Messages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages", nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage sends a chat message as the caller.
func (c *Client) SendMessage(ctx context.Context, content string) (*models.Message, error) {
	var message models.Message
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// Inquiries fetches the caller's inquiries, newest first.
func (c *Client) Inquiries(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	if err := c.do(ctx, http.MethodGet, "/api/inquiries", nil, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}

// CreateInquiry submits a new support ticket.
func (c *Client) CreateInquiry(ctx context.Context, subject, message string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	body := map[string]string{"subject": subject, "message": message}
	if err := c.do(ctx, http.MethodPost, "/api/inquiries", body, &inquiry); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// Notifications fetches the caller's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/notifications/%d/read", id)
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

// UploadAvatar uploads a profile image as the multipart field "image"
// and returns the updated profile.
func (c *Client) UploadAvatar(ctx context.Context, filename string, image io.Reader) (*models.User, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("failed to copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/me/avatar", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil {
			apiErr.Message = resp.Status
		}
		return nil, apiErr
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &user, nil
}

// AdminUsers fetches every user with an active chat, most recently
// active first.
func (c *Client) AdminUsers(ctx context.Context) ([]storage.ChatUser, error) {
	var users []storage.ChatUser
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminUserMessages fetches one user's chat thread.
func (c *Client) AdminUserMessages(ctx context.Context, userID string) ([]models.Message, error) {
	var messages []models.Message
	path := fmt.Sprintf("/api/admin/users/%s/messages", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// AdminReplyToUser sends an admin chat reply to the user.
func (c *Client) AdminReplyToUser(ctx context.Context, userID, content string) (*models.Message, error) {
	var message models.Message
	path := fmt.Sprintf("/api/admin/users/%s/messages", userID)
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, path, body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// AdminInquiries fetches every inquiry across all users, newest first.
func (c *Client) AdminInquiries(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	if err := c.do(ctx, http.MethodGet, "/api/admin/inquiries", nil, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}

// AdminReplyToInquiry sets the admin reply on an inquiry.
func (c *Client) AdminReplyToInquiry(ctx context.Context, id uint, reply string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	path := fmt.Sprintf("/api/admin/inquiries/%d/reply", id)
	body := map[string]string{"reply": reply}
	if err := c.do(ctx, http.MethodPost, path, body, &inquiry); err != nil {
		return nil, err
	}
	return &inquiry, nil
}
