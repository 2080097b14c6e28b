package models

import (
	"time"
)

// User represents an authenticated end user. The ID is the opaque
// subject identifier issued by the identity provider and never changes;
// the profile fields are refreshed from the provider on each login.
type User struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	DisplayName     string    `json:"displayName"`
	Email           string    `gorm:"index" json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
