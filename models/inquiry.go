package models

import (
	"time"
)

// Inquiry status values. The only legal transition is pending -> replied,
// and it happens exactly once, together with setting the reply.
const (
	InquiryStatusPending = "pending"
	InquiryStatusReplied = "replied"
)

// Inquiry represents a structured support ticket (subject + message)
// with a single admin-authored reply.
type Inquiry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index" json:"userId"` // foreign key to users table
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Reply     *string   `gorm:"type:text" json:"reply"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for the Inquiry model
func (Inquiry) TableName() string {
	return "inquiries"
}
