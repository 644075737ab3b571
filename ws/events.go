package ws

import "encoding/json"

// Server-to-client event names.
const (
	EventNewMessage         = "newMessage"
	EventConversationUpdate = "conversationUpdate"
	EventVoteUpdate         = "voteUpdate"
	EventNotificationUpdate = "notificationUpdate"
	EventAnswerUpdate       = "answerUpdate"
	EventQuestionUpdate     = "questionUpdate"
	EventViewsUpdate        = "viewsUpdate"
)

// Client-to-server event names.
const (
	EventJoinConversation  = "joinConversation"
	EventLeaveConversation = "leaveConversation"
)

// Event is the wire envelope for both directions.
type Event struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversationId,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Marshal wraps a payload in the event envelope.
func Marshal(eventType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: eventType, Payload: raw})
}
