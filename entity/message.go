package entity

import "time"

// Message is immutable once created; messages are append-only per
// conversation, ordered by SentAt ascending.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index"`
	Sender         string    `json:"sender" gorm:"index;size:64"`
	Text           string    `json:"text" gorm:"type:text"`
	SentAt         time.Time `json:"sent_at" gorm:"index"`
}
