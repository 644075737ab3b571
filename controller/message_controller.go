package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
	"github.com/abeme/go_qa_api/ws"
)

type MessageController struct {
	msgSvc  service.MessageService
	convSvc service.ConversationService
	fanout  *service.Fanout
	hub     *ws.Hub
}

func NewMessageController(msgSvc service.MessageService, convSvc service.ConversationService, fanout *service.Fanout, hub *ws.Hub) *MessageController {
	return &MessageController{msgSvc: msgSvc, convSvc: convSvc, fanout: fanout, hub: hub}
}

type addMessageRequest struct {
	ConversationID uint   `json:"conversationId"`
	Text           string `json:"text"`
}

func (mc *MessageController) validateFields(req *addMessageRequest, sender string) map[string]string {
	errs := map[string]string{}
	if req.ConversationID == 0 {
		errs["conversationId"] = "Conversation ID is required"
	}
	if sender == "" {
		errs["sender"] = "Sender is required"
	}
	if req.Text == "" {
		errs["text"] = "Message text is required"
	}
	return errs
}

// AddMessage persists the message, refreshes the conversation summary, sends
// newMessage to the room's subscribers, broadcasts conversationUpdate to all
// connections, and fans out notifications to the other participants.
func (mc *MessageController) AddMessage(c *gin.Context) {
	var req addMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	sender := middleware.UserID(c)
	if errs := mc.validateFields(&req, sender); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	msg, err := mc.msgSvc.Send(req.ConversationID, sender, req.Text, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		case errors.Is(err, service.ErrNotParticipant):
			// same answer as not-found so non-participants learn nothing
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding message"})
		}
		return
	}

	conv, err := mc.convSvc.UpdateWithMessage(msg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating conversation"})
		return
	}

	if payload, err := ws.Marshal(ws.EventNewMessage, msg); err == nil {
		mc.hub.SendToRoom(fmt.Sprint(msg.ConversationID), payload)
	}
	if payload, err := ws.Marshal(ws.EventConversationUpdate, conv); err == nil {
		mc.hub.Broadcast(payload)
	}
	go func() {
		if err := mc.fanout.MessageSent(conv, msg); err != nil {
			log.Printf("message fanout: %v", err)
		}
	}()

	c.JSON(http.StatusOK, msg)
}
