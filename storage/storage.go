package storage

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/miyako-dev/support-desk-api/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// Notification copy sent when the admin replies. The inquiry body
// interpolates the inquiry's subject.
const (
	NewMessageNotificationTitle   = "新着メッセージ"
	NewMessageNotificationBody    = "管理者から新しいメッセージが届きました。"
	InquiryReplyNotificationTitle = "お問い合わせへの返信"
)

// Storage is the data access layer: the sole reader/writer of persisted
// state. It presents entity-shaped operations and hides gorm details
// from the handlers.
type Storage struct {
	db *gorm.DB
}

// New creates a Storage backed by the given database handle.
func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// GetUser looks up a user by their identity provider subject id.
func (s *Storage) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpsertUser creates the user on first contact, or refreshes the
// profile fields (display name, email, image) on subsequent logins.
// The id is immutable once created.
func (s *Storage) UpsertUser(user *models.User) (*models.User, error) {
	var existing models.User
	err := s.db.First(&existing, "id = ?", user.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	updates := map[string]interface{}{
		"display_name":      user.DisplayName,
		"email":             user.Email,
		"profile_image_url": user.ProfileImageURL,
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return &existing, nil
}

// UpdateUserProfileImage sets the user's profile image URL after an
// avatar upload.
func (s *Storage) UpdateUserProfileImage(id, url string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.db.Model(&user).Update("profile_image_url", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}
	return &user, nil
}

// GetMessages returns a user's chat thread in ascending createdAt
// order. The slice is empty, never nil, when the thread has no
// messages.
func (s *Storage) GetMessages(userID string) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// CreateMessage inserts one message with a server-assigned id and
// timestamp. Content validation happens in the handler, not here.
func (s *Storage) CreateMessage(userID, content string, isFromAdmin bool) (*models.Message, error) {
	message := models.Message{
		UserID:      userID,
		Content:     content,
		IsFromAdmin: isFromAdmin,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &message, nil
}

// ChatUser is a user plus the timestamp of their most recent message,
// as shown in the admin user list.
type ChatUser struct {
	models.User
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// GetUsersWithChats returns every user with at least one message,
// ordered by their most recent message, newest first.
//
// This issues one latest-message lookup per user. Fine at the scale of
// a single-admin support desk; switch to a grouped aggregate if the
// user count ever matters.
func (s *Storage) GetUsersWithChats() ([]ChatUser, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	chatUsers := make([]ChatUser, 0)
	for _, user := range users {
		var lastMsg models.Message
		err := s.db.Where("user_id = ?", user.ID).
			Order("created_at DESC").
			First(&lastMsg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch last message: %w", err)
		}
		chatUsers = append(chatUsers, ChatUser{User: user, LastMessageAt: lastMsg.CreatedAt})
	}

	sort.Slice(chatUsers, func(i, j int) bool {
		return chatUsers[i].LastMessageAt.After(chatUsers[j].LastMessageAt)
	})
	return chatUsers, nil
}

// CreateInquiry inserts a new ticket with status "pending" and no
// reply.
func (s *Storage) CreateInquiry(userID, subject, message string) (*models.Inquiry, error) {
	inquiry := models.Inquiry{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  models.InquiryStatusPending,
	}
	if err := s.db.Create(&inquiry).Error; err != nil {
		return nil, fmt.Errorf("failed to create inquiry: %w", err)
	}
	return &inquiry, nil
}

// GetInquiries returns inquiries newest first. An empty userID returns
// every inquiry (the admin view); otherwise only that user's.
func (s *Storage) GetInquiries(userID string) ([]models.Inquiry, error) {
	inquiries := make([]models.Inquiry, 0)
	query := s.db.Order("created_at DESC")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Find(&inquiries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}
	return inquiries, nil
}

// GetInquiry looks up a single inquiry by id.
func (s *Storage) GetInquiry(id uint) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := s.db.First(&inquiry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return &inquiry, nil
}

// ReplyToInquiry sets the reply and flips status to "replied", and
// creates the owner's notification, all in one transaction. Returns
// ErrNotFound if the inquiry does not exist.
func (s *Storage) ReplyToInquiry(id uint, reply string) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inquiry, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get inquiry: %w", err)
		}

		updates := map[string]interface{}{
			"reply":  reply,
			"status": models.InquiryStatusReplied,
		}
		if err := tx.Model(&inquiry).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update inquiry: %w", err)
		}

		notification := models.Notification{
			UserID:  inquiry.UserID,
			Title:   InquiryReplyNotificationTitle,
			Message: fmt.Sprintf("「%s」へのお問い合わせに返信がありました。", inquiry.Subject),
		}
		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// ReplyToUser inserts an admin chat message for the user and the
// matching notification in one transaction.
func (s *Storage) ReplyToUser(userID, content string) (*models.Message, error) {
	var message models.Message
	err := s.db.Transaction(func(tx *gorm.DB) error {
		message = models.Message{
			UserID:      userID,
			Content:     content,
			IsFromAdmin: true,
		}
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		notification := models.Notification{
			UserID:  userID,
			Title:   NewMessageNotificationTitle,
			Message: NewMessageNotificationBody,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// CreateNotification inserts an unread notification.
func (s *Storage) CreateNotification(userID, title, message string) (*models.Notification, error) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &notification, nil
}

// GetNotifications returns a user's notifications newest first.
func (s *Storage) GetNotifications(userID string) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead sets read=true. Idempotent: marking an
// already-read notification is a no-op, and so is a missing id.
func (s *Storage) MarkNotificationRead(id uint) error {
	if err := s.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
