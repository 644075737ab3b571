package controller

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abeme/go_qa_api/entity"
	"github.com/abeme/go_qa_api/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// staticSessions resolves fixed tokens, standing in for the redis store.
type staticSessions struct {
	tokens map[string]string
}

func (s *staticSessions) Resolve(_ context.Context, token string) (string, error) {
	uid, ok := s.tokens[token]
	if !ok {
		return "", session.ErrNoSession
	}
	return uid, nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Conversation{},
		&entity.ConversationParticipant{},
		&entity.Message{},
		&entity.Notification{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, username string) *entity.User {
	t.Helper()
	u := &entity.User{ID: id, Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}
