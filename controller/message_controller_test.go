package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeme/go_qa_api/entity"
	"github.com/abeme/go_qa_api/mail"
	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
	"github.com/abeme/go_qa_api/ws"
)

// collectEvents reads frames until the predicate is satisfied or the deadline
// passes, grouping raw frames by envelope type. A nil predicate reads until
// the deadline.
func collectEvents(conn *websocket.Conn, wait time.Duration, done func(map[string][][]byte) bool) map[string][][]byte {
	events := map[string][][]byte{}
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	for done == nil || !done(events) {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return events
		}
		var env struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(raw, &env) == nil {
			events[env.Type] = append(events[env.Type], raw)
		}
	}
	return events
}

func dialWS(t *testing.T, srvURL, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srvURL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

// Sending a message delivers newMessage to the room's subscribers and a badge
// to opted-in recipients, while a connected non-participant receives neither.
func TestAddMessageDeliveryEndToEnd(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, "a-id", "alice")
	seedUser(t, db, "b-id", "bob")
	seedUser(t, db, "d-id", "dora")

	convSvc := service.NewConversationService(db)
	msgSvc := service.NewMessageService(db)
	userSvc := service.NewUserService(db)
	notifSvc := service.NewNotificationService(db)

	conv, err := convSvc.Add([]string{"a-id", "b-id"})
	require.NoError(t, err)
	require.Equal(t, uint(1), conv.ID)
	require.NoError(t, convSvc.SetNotify(conv.ID, "b-id", true))

	sessions := &staticSessions{tokens: map[string]string{
		"tok-alice": "a-id",
		"tok-bob":   "b-id",
		"tok-dora":  "d-id",
	}}
	hub := ws.NewHub()
	gate := ws.NewSessionGate(sessions, convSvc)
	fanout := service.NewFanout(notifSvc, userSvc, hub, mail.Discard{})
	msgCtrl := NewMessageController(msgSvc, convSvc, fanout, hub)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ws.ServeWS(hub, gate, c) })
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(sessions))
	auth.POST("/message/addMessage", msgCtrl.AddMessage)

	srv := httptest.NewServer(r)
	defer srv.Close()

	connB := dialWS(t, srv.URL, "tok-bob")
	defer connB.Close()
	connD := dialWS(t, srv.URL, "tok-dora")
	defer connD.Close()

	require.NoError(t, connB.WriteJSON(gin.H{"type": "joinConversation", "conversationId": "1"}))

	// the join is processed asynchronously by the read pump; ping the room
	// until bob hears it
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			hub.SendToRoom("1", []byte(`{"type":"roomCheck"}`))
			time.Sleep(10 * time.Millisecond)
		}
	}()
	joined := collectEvents(connB, 3*time.Second, func(ev map[string][][]byte) bool {
		return len(ev["roomCheck"]) > 0
	})
	close(stop)
	require.NotEmpty(t, joined["roomCheck"], "bob never entered the room")

	// dora tries to join and is silently refused; the error reply to the
	// follow-up frame proves both frames were processed before the message
	require.NoError(t, connD.WriteJSON(gin.H{"type": "joinConversation", "conversationId": "1"}))
	require.NoError(t, connD.WriteJSON(gin.H{"type": "bogus"}))
	refusal := collectEvents(connD, 3*time.Second, func(ev map[string][][]byte) bool {
		return len(ev["error"]) > 0
	})
	require.NotEmpty(t, refusal["error"])
	assert.Empty(t, refusal["roomCheck"], "dora must not be in the room")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/message/addMessage",
		strings.NewReader(`{"conversationId":1,"text":"hi bob"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer tok-alice")
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := collectEvents(connB, 5*time.Second, func(ev map[string][][]byte) bool {
		return len(ev["newMessage"]) > 0 &&
			len(ev["conversationUpdate"]) > 0 &&
			len(ev["notificationUpdate"]) > 0
	})
	require.NotEmpty(t, got["newMessage"], "bob missed the room event")
	require.NotEmpty(t, got["conversationUpdate"], "bob missed the broadcast")
	require.NotEmpty(t, got["notificationUpdate"], "bob missed the badge")

	var env ws.Event
	require.NoError(t, json.Unmarshal(got["newMessage"][0], &env))
	var m entity.Message
	require.NoError(t, json.Unmarshal(env.Payload, &m))
	assert.Equal(t, "hi bob", m.Text)
	assert.Equal(t, "a-id", m.Sender)

	// the stranger sees at most the public conversationUpdate broadcast
	doraGot := collectEvents(connD, 600*time.Millisecond, nil)
	assert.Empty(t, doraGot["newMessage"], "room event leaked to a non-participant")
	assert.Empty(t, doraGot["notificationUpdate"], "badge leaked to a non-recipient")
}
