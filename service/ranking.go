package service

import (
	"sort"
	"time"

	"github.com/abeme/go_qa_api/entity"
)

// Order selects a question ranking strategy.
type Order string

const (
	OrderNewest     Order = "newest"
	OrderUnanswered Order = "unanswered"
	OrderActive     Order = "active"
	OrderMostViewed Order = "mostViewed"
)

// RankQuestions orders a snapshot of questions by the given strategy. The
// input is never mutated; every strategy is a pure function of the snapshot,
// so repeated calls on the same data yield the same order.
func RankQuestions(qs []entity.Question, order Order) []entity.Question {
	switch order {
	case OrderUnanswered:
		return rankUnanswered(qs)
	case OrderActive:
		return rankActive(qs)
	case OrderMostViewed:
		return rankMostViewed(qs)
	default:
		return rankNewest(qs)
	}
}

// rankNewest sorts descending by ask time. The stable sort keeps equal-time
// questions in their snapshot order, which the other strategies rely on as
// their tie-break.
func rankNewest(qs []entity.Question) []entity.Question {
	out := make([]entity.Question, len(qs))
	copy(out, qs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AskDateTime.After(out[j].AskDateTime)
	})
	return out
}

func rankUnanswered(qs []entity.Question) []entity.Question {
	newest := rankNewest(qs)
	out := newest[:0:0]
	for _, q := range newest {
		if len(q.Answers) == 0 {
			out = append(out, q)
		}
	}
	return out
}

// rankActive sorts descending by the most recent answer time. Questions with
// no answers sort after all answered questions; ties and the unanswered tail
// fall back to newest order, which the preliminary sort establishes.
func rankActive(qs []entity.Question) []entity.Question {
	latest := make(map[uint]time.Time, len(qs))
	for _, q := range qs {
		for _, a := range q.Answers {
			if cur, ok := latest[q.ID]; !ok || cur.Before(a.AnsDateTime) {
				latest[q.ID] = a.AnsDateTime
			}
		}
	}

	out := rankNewest(qs)
	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := latest[out[i].ID]
		tj, jok := latest[out[j].ID]
		if !iok {
			return false
		}
		if !jok {
			return true
		}
		return ti.After(tj)
	})
	return out
}

// rankMostViewed sorts descending by view count, newer question first on ties.
func rankMostViewed(qs []entity.Question) []entity.Question {
	out := rankNewest(qs)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Views) > len(out[j].Views)
	})
	return out
}
