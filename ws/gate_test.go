package ws

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abeme/go_qa_api/service"
	"github.com/abeme/go_qa_api/session"
)

type fakeResolver struct {
	sessions map[string]string
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	uid, ok := f.sessions[token]
	if !ok {
		return "", session.ErrNoSession
	}
	return uid, nil
}

type fakeConversations struct {
	service.ConversationService
	members map[uint]map[string]bool
	err     error
}

func (f *fakeConversations) IsParticipant(id uint, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.members[id][userID], nil
}

func TestAuthenticate(t *testing.T) {
	resolver := &fakeResolver{sessions: map[string]string{"tok-1": "u1"}}
	gate := NewSessionGate(resolver, &fakeConversations{})

	assert.Equal(t, "u1", gate.Authenticate(context.Background(), "tok-1"))

	// unknown or missing tokens degrade to anonymous, not a rejection
	assert.Equal(t, "", gate.Authenticate(context.Background(), "bogus"))
	assert.Equal(t, "", gate.Authenticate(context.Background(), ""))
}

func TestAuthenticateStoreErrorIsAnonymous(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("redis down")}
	gate := NewSessionGate(resolver, &fakeConversations{})

	assert.Equal(t, "", gate.Authenticate(context.Background(), "tok-1"))
}

func TestCanJoin(t *testing.T) {
	convs := &fakeConversations{members: map[uint]map[string]bool{
		7: {"u1": true},
	}}
	gate := NewSessionGate(&fakeResolver{}, convs)

	tests := []struct {
		name   string
		userID string
		roomID string
		want   bool
	}{
		{"participant", "u1", "7", true},
		{"non participant", "u2", "7", false},
		{"unknown conversation", "u1", "8", false},
		{"anonymous", "", "7", false},
		{"malformed room id", "u1", "seven", false},
		{"negative room id", "u1", "-1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.CanJoin(tt.userID, tt.roomID))
		})
	}
}

func TestCanJoinFailsClosedOnStoreError(t *testing.T) {
	convs := &fakeConversations{err: errors.New("db gone")}
	gate := NewSessionGate(&fakeResolver{}, convs)

	assert.False(t, gate.CanJoin("u1", "7"))
}

// Membership is read per attempt, so a removed participant loses join rights
// immediately.
func TestCanJoinSeesMembershipChanges(t *testing.T) {
	convs := &fakeConversations{members: map[uint]map[string]bool{
		7: {"u1": true},
	}}
	gate := NewSessionGate(&fakeResolver{}, convs)

	assert.True(t, gate.CanJoin("u1", "7"))

	delete(convs.members[7], "u1")
	assert.False(t, gate.CanJoin("u1", "7"))
}
