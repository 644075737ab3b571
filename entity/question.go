package entity

import "time"

type Question struct {
	ID          uint                   `json:"id" gorm:"primaryKey"`
	Title       string                 `json:"title" gorm:"size:191"`
	Text        string                 `json:"text" gorm:"type:text"`
	AskedBy     string                 `json:"asked_by" gorm:"index;size:191"`
	AskDateTime time.Time              `json:"ask_date_time" gorm:"index"`
	Tags        []Tag                  `json:"tags" gorm:"many2many:question_tags"`
	Answers     []Answer               `json:"answers"`
	Views       []QuestionView         `json:"views"`
	Votes       []QuestionVote         `json:"-"`
	NotifyList  []QuestionSubscription `json:"notify_list"`
}

// Vote values. A voter has exactly one row per question, so the up and down
// sets cannot overlap.
const (
	VoteUp   = 1
	VoteDown = -1
)

type QuestionVote struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"uniqueIndex:idx_question_voter"`
	Username   string `json:"username" gorm:"uniqueIndex:idx_question_voter;size:191"`
	Value      int    `json:"value"`
}

type QuestionView struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"uniqueIndex:idx_question_viewer"`
	Username   string `json:"username" gorm:"uniqueIndex:idx_question_viewer;size:191"`
}

// QuestionSubscription is a notify-list entry: the user opted into
// notifications for new answers on the question.
type QuestionSubscription struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"uniqueIndex:idx_question_subscriber"`
	UserID     string `json:"user_id" gorm:"uniqueIndex:idx_question_subscriber;size:64"`
}

// UpVotes returns the usernames that currently upvote the question.
func (q *Question) UpVotes() []string {
	return q.votesByValue(VoteUp)
}

// DownVotes returns the usernames that currently downvote the question.
func (q *Question) DownVotes() []string {
	return q.votesByValue(VoteDown)
}

func (q *Question) votesByValue(value int) []string {
	names := make([]string, 0, len(q.Votes))
	for _, v := range q.Votes {
		if v.Value == value {
			names = append(names, v.Username)
		}
	}
	return names
}

// ViewedBy returns the usernames that have viewed the question.
func (q *Question) ViewedBy() []string {
	names := make([]string, 0, len(q.Views))
	for _, v := range q.Views {
		names = append(names, v.Username)
	}
	return names
}
