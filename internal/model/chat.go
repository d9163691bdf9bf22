package model

import (
	"time"

	"gorm.io/gorm"
)

// Chat is an unordered pair of staff user ids. The pair is normalized
// so the lower id always sits in ParticipantA, which makes lookup
// symmetric: one row per pair regardless of who messaged first.
type Chat struct {
	ID           uint           `json:"chat_id" gorm:"primaryKey"`
	ParticipantA uint           `json:"participant_a" gorm:"not null;uniqueIndex:idx_chats_pair"`
	ParticipantB uint           `json:"participant_b" gorm:"not null;uniqueIndex:idx_chats_pair"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ChatID"`
}

// NormalizePair orders an unordered participant pair for storage.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// Involves reports whether userID is one of the chat's participants.
func (c *Chat) Involves(userID uint) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// Message belongs to one Chat.
type Message struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ChatID    uint           `json:"chat_id" gorm:"index;not null"`
	SenderID  uint           `json:"sender_id" gorm:"not null"`
	Body      string         `json:"message" gorm:"column:message;type:text;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Chat *Chat `json:"chat,omitempty" gorm:"foreignKey:ChatID"`
}
