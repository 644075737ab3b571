package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/abeme/go_qa_api/entity"
)

var ErrQuestionNotFound = errors.New("question not found")

// VoteResult reports the transition that occurred together with the
// authoritative post-update vote sets.
type VoteResult struct {
	Msg       string   `json:"msg"`
	UpVotes   []string `json:"up_votes"`
	DownVotes []string `json:"down_votes"`
}

// VoteService toggles a voter's vote on a question. A (question, voter) pair
// is in one of three states: no vote, upvote, downvote. Repeating a vote
// cancels it; casting the opposite vote switches it in the same update.
type VoteService interface {
	Upvote(qid uint, username string) (*VoteResult, error)
	Downvote(qid uint, username string) (*VoteResult, error)
}

type DBVoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *DBVoteService {
	return &DBVoteService{db: db}
}

func (s *DBVoteService) Upvote(qid uint, username string) (*VoteResult, error) {
	return s.toggle(qid, username, entity.VoteUp)
}

func (s *DBVoteService) Downvote(qid uint, username string) (*VoteResult, error) {
	return s.toggle(qid, username, entity.VoteDown)
}

// toggle runs the whole state transition in one transaction. A voter has at
// most one vote row per question (unique index), so there is no reachable
// state with the voter in both sets.
func (s *DBVoteService) toggle(qid uint, username string, value int) (*VoteResult, error) {
	res := &VoteResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&entity.Question{}).Where("id = ?", qid).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrQuestionNotFound
		}

		var vote entity.QuestionVote
		err := tx.Where("question_id = ? AND username = ?", qid, username).First(&vote).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&entity.QuestionVote{QuestionID: qid, Username: username, Value: value}).Error; err != nil {
				return err
			}
			res.Msg = appliedMsg(value)
		case err != nil:
			return err
		case vote.Value == value:
			if err := tx.Delete(&vote).Error; err != nil {
				return err
			}
			res.Msg = cancelledMsg(value)
		default:
			if err := tx.Model(&vote).Update("value", value).Error; err != nil {
				return err
			}
			res.Msg = appliedMsg(value)
		}

		var votes []entity.QuestionVote
		if err := tx.Where("question_id = ?", qid).Order("id").Find(&votes).Error; err != nil {
			return err
		}
		res.UpVotes = make([]string, 0, len(votes))
		res.DownVotes = make([]string, 0, len(votes))
		for _, v := range votes {
			if v.Value == entity.VoteUp {
				res.UpVotes = append(res.UpVotes, v.Username)
			} else {
				res.DownVotes = append(res.DownVotes, v.Username)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func appliedMsg(value int) string {
	if value == entity.VoteUp {
		return "Question upvoted successfully"
	}
	return "Question downvoted successfully"
}

func cancelledMsg(value int) string {
	if value == entity.VoteUp {
		return "Upvote cancelled successfully"
	}
	return "Downvote cancelled successfully"
}
