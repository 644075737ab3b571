package ws

import (
	"context"
	"log"
	"strconv"

	"github.com/abeme/go_qa_api/service"
	"github.com/abeme/go_qa_api/session"
)

// SessionGate authorizes live connections and room joins. It resolves
// identity through the same session store as the HTTP layer and re-checks
// conversation membership on every join attempt, never caching it from
// connect time.
type SessionGate struct {
	sessions      session.Resolver
	conversations service.ConversationService
}

func NewSessionGate(sessions session.Resolver, conversations service.ConversationService) *SessionGate {
	return &SessionGate{sessions: sessions, conversations: conversations}
}

// Authenticate resolves the connection identity from the session token.
// An invalid or missing session yields an anonymous connection rather than a
// rejected one; anonymous connections only see public broadcasts.
func (g *SessionGate) Authenticate(ctx context.Context, token string) string {
	userID, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		return ""
	}
	return userID
}

// CanJoin decides a room-join attempt. Malformed room ids are logged and
// refused; a store error is a refusal (fail closed). The caller refuses
// silently, so an unauthorized client learns nothing about the conversation.
func (g *SessionGate) CanJoin(userID, roomID string) bool {
	if userID == "" {
		return false
	}
	id, err := strconv.ParseUint(roomID, 10, 64)
	if err != nil {
		log.Printf("join refused: malformed conversation id %q", roomID)
		return false
	}
	ok, err := g.conversations.IsParticipant(uint(id), userID)
	if err != nil {
		log.Printf("join refused: membership check for conversation %s: %v", roomID, err)
		return false
	}
	return ok
}
