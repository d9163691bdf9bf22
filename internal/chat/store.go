package chat

import (
	"context"

	"gorm.io/gorm"

	"github.com/Deep-1402/cafe/internal/model"
)

// Store persists chats and messages inside one tenant database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a chat store over a resolved tenant connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveMessage persists one message, creating the chat row for the
// participant pair if it does not exist yet. The pair is normalized
// before lookup so the row is found regardless of who sent first.
func (s *Store) SaveMessage(ctx context.Context, senderID, receiverID uint, body string) (*model.Message, error) {
	a, b := model.NormalizePair(senderID, receiverID)

	chat := model.Chat{ParticipantA: a, ParticipantB: b}
	err := s.db.WithContext(ctx).
		Where("participant_a = ? AND participant_b = ?", a, b).
		FirstOrCreate(&chat).Error
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		ChatID:   chat.ID,
		SenderID: senderID,
		Body:     body,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ChatsFor lists the chats a user participates in.
func (s *Store) ChatsFor(ctx context.Context, userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	err := s.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Find(&chats).Error
	return chats, err
}

// Messages returns a chat's history in send order.
func (s *Store) Messages(ctx context.Context, chatID uint) ([]model.Message, error) {
	var messages []model.Message
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Find(&messages).Error
	return messages, err
}

// Get returns one chat row.
func (s *Store) Get(ctx context.Context, chatID uint) (*model.Chat, error) {
	var chat model.Chat
	if err := s.db.WithContext(ctx).First(&chat, chatID).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}
