package models

import (
	"time"

	"gorm.io/gorm"
)

type Forum struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OwnerID      uint           `gorm:"not null;index" json:"owner_id"`
	Title        string         `gorm:"size:128;not null" json:"title"`
	Description  string         `gorm:"size:512" json:"description"`
	KeywordsText string         `gorm:"size:512" json:"keywords_text"`
	ProfileImg   string         `gorm:"size:512" json:"profile_img"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Owner        User               `gorm:"foreignKey:OwnerID" json:"-"`
	Participants []ForumParticipant `gorm:"foreignKey:ForumID" json:"participants,omitempty"`
}

func (Forum) TableName() string { return "forums" }

type ForumParticipant struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ForumID  uint      `gorm:"not null;index:idx_forum_member,unique" json:"forum_id"`
	UserID   uint      `gorm:"not null;index:idx_forum_member,unique;index" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

func (ForumParticipant) TableName() string { return "forum_participants" }

type ForumJoinRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ForumID     uint      `gorm:"not null;index:idx_forum_request,unique" json:"forum_id"`
	UserID      uint      `gorm:"not null;index:idx_forum_request,unique" json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ForumJoinRequest) TableName() string { return "forum_join_requests" }

type ForumMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ForumID   uint      `gorm:"not null;index" json:"forum_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Content   string    `gorm:"size:2048;not null" json:"content"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
	CreatedAt time.Time `json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (ForumMessage) TableName() string { return "forum_messages" }

// ForumReadStatus tracks the last message a participant has read,
// used for unread counts in forum listings.
type ForumReadStatus struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ForumID           uint      `gorm:"not null;index:idx_forum_read,unique" json:"forum_id"`
	UserID            uint      `gorm:"not null;index:idx_forum_read,unique" json:"user_id"`
	LastReadMessageID uint      `json:"last_read_message_id"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (ForumReadStatus) TableName() string { return "forum_read_statuses" }

type Job struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PostedByID  uint           `gorm:"not null;index" json:"posted_by_id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Description string         `gorm:"size:1024" json:"description"`
	Location    string         `gorm:"size:128" json:"location"`
	ApplyLink   string         `gorm:"size:512" json:"apply_link"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	PostedBy User `gorm:"foreignKey:PostedByID" json:"-"`
}

func (Job) TableName() string { return "jobs" }
