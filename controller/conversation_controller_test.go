package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
)

func newConversationRouter(t *testing.T) (*gin.Engine, service.ConversationService) {
	t.Helper()
	db := testDB(t)
	seedUser(t, db, "u1", "alice")
	seedUser(t, db, "u2", "bob")

	convSvc := service.NewConversationService(db)
	msgSvc := service.NewMessageService(db)
	userSvc := service.NewUserService(db)
	ctrl := NewConversationController(convSvc, msgSvc, userSvc)

	sessions := &staticSessions{tokens: map[string]string{
		"tok-alice": "u1",
		"tok-bob":   "u2",
	}}
	r := gin.New()
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(sessions))
	auth.PATCH("/conversation/leaveConversation", ctrl.LeaveConversation)
	return r, convSvc
}

func doPatch(r *gin.Engine, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveConversationRemovesMembership(t *testing.T) {
	r, convSvc := newConversationRouter(t)
	conv, err := convSvc.Add([]string{"u1", "u2"})
	require.NoError(t, err)

	w := doPatch(r, "/conversation/leaveConversation", "tok-alice", `{"cid":1}`)
	assert.Equal(t, http.StatusOK, w.Code)

	ok, err := convSvc.IsParticipant(conv.ID, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = convSvc.IsParticipant(conv.ID, "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	// leaving again finds no membership
	w = doPatch(r, "/conversation/leaveConversation", "tok-alice", `{"cid":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaveConversationNonParticipant(t *testing.T) {
	r, convSvc := newConversationRouter(t)
	_, err := convSvc.Add([]string{"u1", "u2"})
	require.NoError(t, err)

	// a leave on a missing conversation and a stranger's leave on a real one
	// answer identically
	w := doPatch(r, "/conversation/leaveConversation", "tok-bob", `{"cid":99}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
