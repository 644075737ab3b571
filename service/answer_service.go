package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/abeme/go_qa_api/entity"
)

type AnswerService interface {
	Add(qid uint, text, ansBy string, ansDateTime time.Time) (*entity.Answer, error)
}

type DBAnswerService struct {
	db *gorm.DB
}

func NewAnswerService(db *gorm.DB) *DBAnswerService {
	return &DBAnswerService{db: db}
}

func (s *DBAnswerService) Add(qid uint, text, ansBy string, ansDateTime time.Time) (*entity.Answer, error) {
	if text == "" || ansBy == "" || ansDateTime.IsZero() {
		return nil, errors.New("invalid answer")
	}
	ans := &entity.Answer{
		QuestionID:  qid,
		Text:        text,
		AnsBy:       ansBy,
		AnsDateTime: ansDateTime,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&entity.Question{}).Where("id = ?", qid).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrQuestionNotFound
		}
		return tx.Create(ans).Error
	})
	if err != nil {
		return nil, err
	}
	return ans, nil
}
