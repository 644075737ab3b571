package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionAddReusesTags(t *testing.T) {
	db := testDB(t)
	svc := NewQuestionService(db)

	now := time.Now()
	first, err := svc.Add("android crash", "my app crashes", "hamkalo", now, []string{"android", "java"})
	require.NoError(t, err)
	require.Len(t, first.Tags, 2)

	second, err := svc.Add("another android one", "still crashing", "alia", now, []string{"android"})
	require.NoError(t, err)
	require.Len(t, second.Tags, 1)
	assert.Equal(t, first.Tags[0].ID, second.Tags[0].ID)

	_, err = svc.Add("", "no title", "hamkalo", now, nil)
	assert.Error(t, err)
}

func TestQuestionViewIsIdempotentPerViewer(t *testing.T) {
	db := testDB(t)
	svc := NewQuestionService(db)

	q, err := svc.Add("views", "counting views", "hamkalo", time.Now(), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := svc.GetByIDWithView(q.ID, "alia")
		require.NoError(t, err)
		assert.Equal(t, []string{"alia"}, got.ViewedBy())
	}

	got, err := svc.GetByIDWithView(q.ID, "abaya")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alia", "abaya"}, got.ViewedBy())

	// anonymous reads do not record a view
	got, err = svc.GetByIDWithView(q.ID, "")
	require.NoError(t, err)
	assert.Len(t, got.ViewedBy(), 2)

	_, err = svc.GetByIDWithView(999, "alia")
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestQuestionNotifyList(t *testing.T) {
	db := testDB(t)
	svc := NewQuestionService(db)

	q, err := svc.Add("notify", "ping me", "hamkalo", time.Now(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.SetNotify(q.ID, "u1", true))
	require.NoError(t, svc.SetNotify(q.ID, "u1", true)) // repeat is a no-op
	require.NoError(t, svc.SetNotify(q.ID, "u2", true))

	list, err := svc.NotifyList(q.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, list)

	require.NoError(t, svc.SetNotify(q.ID, "u1", false))
	require.NoError(t, svc.SetNotify(q.ID, "u1", false))

	list, err = svc.NotifyList(q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, list)

	assert.ErrorIs(t, svc.SetNotify(999, "u1", true), ErrQuestionNotFound)
}

func TestQuestionGetByFilterRanksThenFilters(t *testing.T) {
	db := testDB(t)
	svc := NewQuestionService(db)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := svc.Add("oldest android", "android text", "hamkalo", base, []string{"android"})
	require.NoError(t, err)
	_, err = svc.Add("middle", "plain text", "alia", base.Add(time.Hour), nil)
	require.NoError(t, err)
	newest, err := svc.Add("newest android", "android text", "alia", base.Add(2*time.Hour), []string{"android"})
	require.NoError(t, err)

	qs, err := svc.GetByFilter(OrderNewest, "[android]", "")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "newest android", qs[0].Title)
	assert.Equal(t, "oldest android", qs[1].Title)

	qs, err = svc.GetByFilter(OrderNewest, "", "alia")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, newest.ID, qs[0].ID)

	qs, err = svc.GetByFilter(OrderNewest, "[android]", "alia")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, newest.ID, qs[0].ID)
}

func TestAnswerAdd(t *testing.T) {
	db := testDB(t)
	qSvc := NewQuestionService(db)
	aSvc := NewAnswerService(db)

	q, err := qSvc.Add("q", "text", "hamkalo", time.Now(), nil)
	require.NoError(t, err)

	ans, err := aSvc.Add(q.ID, "use a mutex", "alia", time.Now())
	require.NoError(t, err)
	assert.NotZero(t, ans.ID)

	got, err := qSvc.GetByID(q.ID)
	require.NoError(t, err)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, "use a mutex", got.Answers[0].Text)

	_, err = aSvc.Add(999, "orphan", "alia", time.Now())
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	_, err = aSvc.Add(q.ID, "", "alia", time.Now())
	assert.Error(t, err)
}
