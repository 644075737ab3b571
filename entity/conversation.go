package entity

import "time"

// Conversation is the unit of live room membership: one room per conversation.
type Conversation struct {
	ID           uint                      `json:"id" gorm:"primaryKey"`
	Participants []ConversationParticipant `json:"participants"`
	LastMessage  string                    `json:"last_message" gorm:"type:text"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at" gorm:"index"`
}

// ConversationParticipant links a user to a conversation. Notify marks the
// notify-list opt-in for the live notification badge; message delivery itself
// is never gated on it.
type ConversationParticipant struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ConversationID uint   `json:"conversation_id" gorm:"uniqueIndex:idx_conversation_user"`
	UserID         string `json:"user_id" gorm:"uniqueIndex:idx_conversation_user;size:64"`
	Notify         bool   `json:"notify"`
}

// ParticipantIDs returns the user ids of all participants.
func (c *Conversation) ParticipantIDs() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	return ids
}

// NotifyList returns the user ids of participants opted into live notifications.
func (c *Conversation) NotifyList() []string {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p.Notify {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// HasParticipant reports whether the user is a participant of the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
