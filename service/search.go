package service

import (
	"regexp"
	"strings"

	"github.com/abeme/go_qa_api/entity"
)

var (
	tagPattern     = regexp.MustCompile(`\[([^\]]+)\]`)
	keywordPattern = regexp.MustCompile(`\b\w+\b`)
)

// ParseSearch splits a search string into bracketed tags and free keywords,
// e.g. "sort [go][generics]" yields tags {go, generics} and keyword {sort}.
func ParseSearch(search string) (tags []string, keywords []string) {
	for _, m := range tagPattern.FindAllStringSubmatch(search, -1) {
		tags = append(tags, m[1])
	}
	stripped := tagPattern.ReplaceAllString(search, " ")
	keywords = keywordPattern.FindAllString(stripped, -1)
	return tags, keywords
}

// FilterQuestionsBySearch keeps questions matching any search tag or keyword.
// It filters a ranked list in place order, so the ranked relative order among
// survivors is preserved. An empty search keeps everything.
func FilterQuestionsBySearch(qs []entity.Question, search string) []entity.Question {
	tags, keywords := ParseSearch(search)
	if len(tags) == 0 && len(keywords) == 0 {
		return qs
	}

	out := qs[:0:0]
	for _, q := range qs {
		switch {
		case len(keywords) == 0:
			if questionHasTag(&q, tags) {
				out = append(out, q)
			}
		case len(tags) == 0:
			if questionHasKeyword(&q, keywords) {
				out = append(out, q)
			}
		default:
			if questionHasKeyword(&q, keywords) || questionHasTag(&q, tags) {
				out = append(out, q)
			}
		}
	}
	return out
}

// FilterQuestionsByAskedBy keeps questions asked by the given username,
// preserving order.
func FilterQuestionsByAskedBy(qs []entity.Question, askedBy string) []entity.Question {
	out := qs[:0:0]
	for _, q := range qs {
		if q.AskedBy == askedBy {
			out = append(out, q)
		}
	}
	return out
}

func questionHasTag(q *entity.Question, tags []string) bool {
	for _, name := range tags {
		for _, t := range q.Tags {
			if t.Name == name {
				return true
			}
		}
	}
	return false
}

func questionHasKeyword(q *entity.Question, keywords []string) bool {
	for _, w := range keywords {
		if strings.Contains(q.Title, w) || strings.Contains(q.Text, w) {
			return true
		}
	}
	return false
}
