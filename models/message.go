package models

import (
	"time"
)

// Message represents one chat message between a user and the admin.
// Messages are immutable after creation; the insertion timestamp is the
// ordering key for a user's thread.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;index" json:"userId"` // foreign key to users table
	User        User      `gorm:"foreignKey:UserID" json:"-"`   // don't include full user in JSON
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsFromAdmin bool      `gorm:"not null;default:false" json:"isFromAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
