package entity

import "time"

type Answer struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	QuestionID  uint      `json:"question_id" gorm:"index"`
	Text        string    `json:"text" gorm:"type:text"`
	AnsBy       string    `json:"ans_by" gorm:"index;size:191"`
	AnsDateTime time.Time `json:"ans_date_time" gorm:"index"`
}
