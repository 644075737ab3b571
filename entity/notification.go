package entity

import "time"

// Notification is owned by exactly one recipient. Fan-out creates one row per
// recipient so that each can delete their copy without affecting the others.
type Notification struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"index;size:64"`
	Type     string    `json:"type" gorm:"size:32"`
	Text     string    `json:"text" gorm:"type:text"`
	TargetID string    `json:"target_id" gorm:"size:64"`
	DateTime time.Time `json:"date_time" gorm:"index"`
}
