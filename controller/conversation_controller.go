package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
)

type ConversationController struct {
	convSvc service.ConversationService
	msgSvc  service.MessageService
	userSvc service.UserService
}

func NewConversationController(convSvc service.ConversationService, msgSvc service.MessageService, userSvc service.UserService) *ConversationController {
	return &ConversationController{convSvc: convSvc, msgSvc: msgSvc, userSvc: userSvc}
}

type addConversationRequest struct {
	Participants []string `json:"participants" binding:"required"`
}

// AddConversation creates a conversation between existing users, identified
// by username.
func (cc *ConversationController) AddConversation(c *gin.Context) {
	var req addConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Participants) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	users, err := cc.userSvc.GetByUsernames(req.Participants)
	if err != nil || len(users) != len(req.Participants) {
		c.JSON(http.StatusNotFound, gin.H{"error": "users not found"})
		return
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	conv, err := cc.convSvc.Add(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding conversation"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

// GetConversations lists the session user's conversations, most recently
// updated first.
func (cc *ConversationController) GetConversations(c *gin.Context) {
	convs, err := cc.convSvc.ListForUser(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching conversations"})
		return
	}
	c.JSON(http.StatusOK, convs)
}

// GetMessages returns a conversation's history, oldest first. Only
// participants can read it; everyone else gets the same not-found answer so
// the conversation's existence is not leaked.
func (cc *ConversationController) GetMessages(c *gin.Context) {
	cid, err := strconv.ParseUint(c.Param("cid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}
	ok, err := cc.convSvc.IsParticipant(uint(cid), middleware.UserID(c))
	if err != nil || !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	msgs, err := cc.msgSvc.List(uint(cid))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type leaveConversationRequest struct {
	CID uint `json:"cid" binding:"required"`
}

// LeaveConversation removes the session user from the conversation. Room
// joins re-check membership per attempt, so a former participant loses live
// access immediately; existing room subscriptions end when the connection
// leaves or drops.
func (cc *ConversationController) LeaveConversation(c *gin.Context) {
	var req leaveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid := middleware.UserID(c)
	ok, err := cc.convSvc.IsParticipant(req.CID, uid)
	if err != nil || !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if err := cc.convSvc.RemoveParticipant(req.CID, uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error leaving conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": req.CID})
}

type conversationNotifyRequest struct {
	CID uint   `json:"cid" binding:"required"`
	UID string `json:"uid" binding:"required"`
}

func (cc *ConversationController) AddUserToNotifyList(c *gin.Context) {
	cc.changeNotifyList(c, true)
}

func (cc *ConversationController) RemoveUserFromNotifyList(c *gin.Context) {
	cc.changeNotifyList(c, false)
}

func (cc *ConversationController) changeNotifyList(c *gin.Context, enabled bool) {
	var req conversationNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := cc.convSvc.SetNotify(req.CID, req.UID, enabled); err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating notify list"})
		return
	}
	conv, err := cc.convSvc.GetByID(req.CID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching conversation"})
		return
	}
	c.JSON(http.StatusOK, conv)
}
