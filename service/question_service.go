package service

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abeme/go_qa_api/entity"
)

// QuestionService covers question lifecycle, ranking reads, views, and the
// per-question notify list.
type QuestionService interface {
	Add(title, text, askedBy string, askDateTime time.Time, tagNames []string) (*entity.Question, error)
	GetByOrder(order Order) ([]entity.Question, error)
	GetByFilter(order Order, search, askedBy string) ([]entity.Question, error)
	GetByIDWithView(qid uint, viewer string) (*entity.Question, error)
	GetByID(qid uint) (*entity.Question, error)
	SetNotify(qid uint, userID string, enabled bool) error
	NotifyList(qid uint) ([]string, error)
}

type DBQuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *DBQuestionService {
	return &DBQuestionService{db: db}
}

var questionPreloads = []string{"Tags", "Answers", "Views", "Votes", "NotifyList"}

func (s *DBQuestionService) preloaded() *gorm.DB {
	q := s.db.Model(&entity.Question{})
	for _, p := range questionPreloads {
		q = q.Preload(p)
	}
	return q
}

func (s *DBQuestionService) Add(title, text, askedBy string, askDateTime time.Time, tagNames []string) (*entity.Question, error) {
	if title == "" || text == "" || askedBy == "" {
		return nil, errors.New("invalid question")
	}
	q := &entity.Question{
		Title:       title,
		Text:        text,
		AskedBy:     askedBy,
		AskDateTime: askDateTime,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, name := range tagNames {
			var tag entity.Tag
			if err := tx.Where(entity.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			q.Tags = append(q.Tags, tag)
		}
		return tx.Create(q).Error
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByOrder loads the current snapshot and ranks it. The ranking itself is
// pure; every call recomputes from a fresh read.
func (s *DBQuestionService) GetByOrder(order Order) ([]entity.Question, error) {
	var qs []entity.Question
	if err := s.preloaded().Find(&qs).Error; err != nil {
		return nil, err
	}
	return RankQuestions(qs, order), nil
}

// GetByFilter ranks first, then filters, preserving ranked order among
// survivors.
func (s *DBQuestionService) GetByFilter(order Order, search, askedBy string) ([]entity.Question, error) {
	qs, err := s.GetByOrder(order)
	if err != nil {
		return nil, err
	}
	if askedBy != "" {
		qs = FilterQuestionsByAskedBy(qs, askedBy)
	}
	if search != "" {
		qs = FilterQuestionsBySearch(qs, search)
	}
	return qs, nil
}

// GetByIDWithView records the viewer in the question's view set (idempotent)
// and returns the updated question.
func (s *DBQuestionService) GetByIDWithView(qid uint, viewer string) (*entity.Question, error) {
	var q entity.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&entity.Question{}).Where("id = ?", qid).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrQuestionNotFound
		}
		if viewer != "" {
			view := entity.QuestionView{QuestionID: qid, Username: viewer}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&view).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.preloaded().First(&q, qid).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *DBQuestionService) GetByID(qid uint) (*entity.Question, error) {
	var q entity.Question
	if err := s.preloaded().First(&q, qid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

// SetNotify adds or removes the user on the question's notify list. Both
// directions are idempotent.
func (s *DBQuestionService) SetNotify(qid uint, userID string, enabled bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&entity.Question{}).Where("id = ?", qid).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrQuestionNotFound
		}
		if enabled {
			sub := entity.QuestionSubscription{QuestionID: qid, UserID: userID}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error
		}
		return tx.Where("question_id = ? AND user_id = ?", qid, userID).
			Delete(&entity.QuestionSubscription{}).Error
	})
}

func (s *DBQuestionService) NotifyList(qid uint) ([]string, error) {
	var subs []entity.QuestionSubscription
	if err := s.db.Where("question_id = ?", qid).Find(&subs).Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.UserID)
	}
	return ids, nil
}
