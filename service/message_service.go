package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/abeme/go_qa_api/entity"
)

var ErrNotParticipant = errors.New("sender is not a participant of the conversation")

type MessageService interface {
	Send(conversationID uint, sender, text string, sentAt time.Time) (*entity.Message, error)
	List(conversationID uint) ([]entity.Message, error)
}

type DBMessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *DBMessageService {
	return &DBMessageService{db: db}
}

func (s *DBMessageService) Send(conversationID uint, sender, text string, sentAt time.Time) (*entity.Message, error) {
	if sender == "" || text == "" {
		return nil, errors.New("invalid message")
	}
	m := &entity.Message{
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		SentAt:         sentAt,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&entity.Conversation{}).Where("id = ?", conversationID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrConversationNotFound
		}
		err := tx.Model(&entity.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", conversationID, sender).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt == 0 {
			return ErrNotParticipant
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns a conversation's messages ordered by sent time ascending.
func (s *DBMessageService) List(conversationID uint) ([]entity.Message, error) {
	var msgs []entity.Message
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
