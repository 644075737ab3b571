package controller

import (
	"time"

	"github.com/abeme/go_qa_api/entity"
)

// questionResponse is the client-facing question shape: vote and view sets as
// username arrays, tags as names.
type questionResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Text        string          `json:"text"`
	AskedBy     string          `json:"asked_by"`
	AskDateTime time.Time       `json:"ask_date_time"`
	Tags        []string        `json:"tags"`
	Answers     []entity.Answer `json:"answers"`
	Views       []string        `json:"views"`
	UpVotes     []string        `json:"up_votes"`
	DownVotes   []string        `json:"down_votes"`
	NotifyList  []string        `json:"notify_list"`
}

func toQuestionResponse(q *entity.Question) questionResponse {
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		tags = append(tags, t.Name)
	}
	notify := make([]string, 0, len(q.NotifyList))
	for _, sub := range q.NotifyList {
		notify = append(notify, sub.UserID)
	}
	answers := q.Answers
	if answers == nil {
		answers = []entity.Answer{}
	}
	return questionResponse{
		ID:          q.ID,
		Title:       q.Title,
		Text:        q.Text,
		AskedBy:     q.AskedBy,
		AskDateTime: q.AskDateTime,
		Tags:        tags,
		Answers:     answers,
		Views:       q.ViewedBy(),
		UpVotes:     q.UpVotes(),
		DownVotes:   q.DownVotes(),
		NotifyList:  notify,
	}
}

func toQuestionResponses(qs []entity.Question) []questionResponse {
	out := make([]questionResponse, 0, len(qs))
	for i := range qs {
		out = append(out, toQuestionResponse(&qs[i]))
	}
	return out
}
