package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abeme/go_qa_api/entity"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Follow{},
		&entity.Tag{},
		&entity.Question{},
		&entity.QuestionVote{},
		&entity.QuestionView{},
		&entity.QuestionSubscription{},
		&entity.Answer{},
		&entity.Conversation{},
		&entity.ConversationParticipant{},
		&entity.Message{},
		&entity.Notification{},
	))
	return db
}

func seedQuestion(t *testing.T, db *gorm.DB, q *entity.Question) *entity.Question {
	t.Helper()
	require.NoError(t, db.Create(q).Error)
	return q
}

func seedUser(t *testing.T, db *gorm.DB, id, username string) *entity.User {
	t.Helper()
	u := &entity.User{ID: id, Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}
