package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/abeme/go_qa_api/entity"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationService manages conversations and their participant sets.
// Participant membership is also the room-join authority for the live layer,
// so IsParticipant always reads the store rather than any cached state.
type ConversationService interface {
	Add(participantIDs []string) (*entity.Conversation, error)
	GetByID(id uint) (*entity.Conversation, error)
	ListForUser(userID string) ([]entity.Conversation, error)
	IsParticipant(id uint, userID string) (bool, error)
	RemoveParticipant(id uint, userID string) error
	SetNotify(id uint, userID string, enabled bool) error
	UpdateWithMessage(m *entity.Message) (*entity.Conversation, error)
}

type DBConversationService struct {
	db *gorm.DB
}

func NewConversationService(db *gorm.DB) *DBConversationService {
	return &DBConversationService{db: db}
}

func (s *DBConversationService) Add(participantIDs []string) (*entity.Conversation, error) {
	unique := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		unique[id] = true
	}
	if len(unique) < 2 {
		return nil, errors.New("conversation requires at least two distinct participants")
	}

	conv := &entity.Conversation{}
	for _, id := range participantIDs {
		if unique[id] {
			conv.Participants = append(conv.Participants, entity.ConversationParticipant{UserID: id})
			unique[id] = false
		}
	}
	if err := s.db.Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *DBConversationService) GetByID(id uint) (*entity.Conversation, error) {
	var conv entity.Conversation
	if err := s.db.Preload("Participants").First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (s *DBConversationService) ListForUser(userID string) ([]entity.Conversation, error) {
	var convs []entity.Conversation
	err := s.db.Preload("Participants").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

func (s *DBConversationService) IsParticipant(id uint, userID string) (bool, error) {
	var cnt int64
	err := s.db.Model(&entity.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", id, userID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *DBConversationService) RemoveParticipant(id uint, userID string) error {
	return s.db.Where("conversation_id = ? AND user_id = ?", id, userID).
		Delete(&entity.ConversationParticipant{}).Error
}

// SetNotify toggles the live-notification opt-in for a participant. Only
// existing participants can opt in.
func (s *DBConversationService) SetNotify(id uint, userID string, enabled bool) error {
	res := s.db.Model(&entity.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", id, userID).
		Update("notify", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// UpdateWithMessage refreshes the conversation summary from the message and
// returns the updated conversation.
func (s *DBConversationService) UpdateWithMessage(m *entity.Message) (*entity.Conversation, error) {
	res := s.db.Model(&entity.Conversation{}).
		Where("id = ?", m.ConversationID).
		Updates(map[string]interface{}{
			"last_message": m.Text,
			"updated_at":   m.SentAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConversationNotFound
	}
	return s.GetByID(m.ConversationID)
}
