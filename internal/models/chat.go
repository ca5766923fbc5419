package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatSession struct {
	ID        string     `gorm:"type:varchar(255);primaryKey" json:"session_id"`
	ResumeID  *uuid.UUID `gorm:"type:char(36);index" json:"resume_id,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	Messages []ChatMessage `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (s *ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage history is ordered by Timestamp, with ID breaking ties
// between messages written in the same instant.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID string    `gorm:"type:varchar(255);index" json:"session_id"`
	Role      ChatRole  `gorm:"type:varchar(16)" json:"role"`
	Content   string    `gorm:"type:text" json:"content"`
	Timestamp time.Time `gorm:"column:sent_at;index" json:"timestamp"`
}

func (m *ChatMessage) TableName() string {
	return "chat_messages"
}
