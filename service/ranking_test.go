package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abeme/go_qa_api/entity"
)

var rankingBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(offset int) time.Time {
	return rankingBase.Add(time.Duration(offset) * time.Minute)
}

func questionIDs(qs []entity.Question) []uint {
	ids := make([]uint, 0, len(qs))
	for _, q := range qs {
		ids = append(ids, q.ID)
	}
	return ids
}

func rankingFixture() []entity.Question {
	return []entity.Question{
		{
			ID:          1,
			Title:       "oldest, answered late",
			AskDateTime: at(0),
			Answers:     []entity.Answer{{ID: 1, QuestionID: 1, AnsDateTime: at(10)}},
			Views:       []entity.QuestionView{{QuestionID: 1, Username: "a"}, {QuestionID: 1, Username: "b"}},
		},
		{
			ID:          2,
			Title:       "middle, answered early",
			AskDateTime: at(1),
			Answers:     []entity.Answer{{ID: 2, QuestionID: 2, AnsDateTime: at(5)}},
			Views:       []entity.QuestionView{{QuestionID: 2, Username: "a"}},
		},
		{
			ID:          3,
			Title:       "newest, unanswered",
			AskDateTime: at(2),
			Views:       []entity.QuestionView{{QuestionID: 3, Username: "a"}},
		},
	}
}

func TestRankNewest(t *testing.T) {
	got := RankQuestions(rankingFixture(), OrderNewest)
	assert.Equal(t, []uint{3, 2, 1}, questionIDs(got))
}

func TestRankUnanswered(t *testing.T) {
	got := RankQuestions(rankingFixture(), OrderUnanswered)
	assert.Equal(t, []uint{3}, questionIDs(got))
}

func TestRankActive(t *testing.T) {
	// most recent answer wins; unanswered questions sort last
	got := RankQuestions(rankingFixture(), OrderActive)
	assert.Equal(t, []uint{1, 2, 3}, questionIDs(got))
}

func TestRankActiveOrdersByLatestAnswer(t *testing.T) {
	qs := []entity.Question{
		{ID: 1, Title: "A", AskDateTime: at(0), Answers: []entity.Answer{{QuestionID: 1, AnsDateTime: at(5)}}},
		{ID: 2, Title: "B", AskDateTime: at(1), Answers: []entity.Answer{{QuestionID: 2, AnsDateTime: at(10)}}},
		{ID: 3, Title: "C", AskDateTime: at(2)},
	}
	got := RankQuestions(qs, OrderActive)
	assert.Equal(t, []uint{2, 1, 3}, questionIDs(got))
}

func TestRankActiveUnansweredTailKeepsNewestOrder(t *testing.T) {
	qs := []entity.Question{
		{ID: 1, AskDateTime: at(0)},
		{ID: 2, AskDateTime: at(3)},
		{ID: 3, AskDateTime: at(1), Answers: []entity.Answer{{QuestionID: 3, AnsDateTime: at(4)}}},
	}
	got := RankQuestions(qs, OrderActive)
	assert.Equal(t, []uint{3, 2, 1}, questionIDs(got))
}

func TestRankMostViewed(t *testing.T) {
	got := RankQuestions(rankingFixture(), OrderMostViewed)
	// question 1 has two views; 2 and 3 tie with one, newer first
	assert.Equal(t, []uint{1, 3, 2}, questionIDs(got))
}

func TestRankingIsDeterministic(t *testing.T) {
	snapshot := rankingFixture()
	for _, order := range []Order{OrderNewest, OrderUnanswered, OrderActive, OrderMostViewed} {
		first := RankQuestions(snapshot, order)
		second := RankQuestions(snapshot, order)
		assert.Equal(t, questionIDs(first), questionIDs(second), "order %s", order)
	}
}

func TestRankingDoesNotMutateInput(t *testing.T) {
	snapshot := rankingFixture()
	RankQuestions(snapshot, OrderActive)
	assert.Equal(t, []uint{1, 2, 3}, questionIDs(snapshot))
}
