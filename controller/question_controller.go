package controller

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
	"github.com/abeme/go_qa_api/ws"
)

type QuestionController struct {
	questionSvc service.QuestionService
	voteSvc     service.VoteService
	userSvc     service.UserService
	hub         *ws.Hub
}

func NewQuestionController(questionSvc service.QuestionService, voteSvc service.VoteService, userSvc service.UserService, hub *ws.Hub) *QuestionController {
	return &QuestionController{questionSvc: questionSvc, voteSvc: voteSvc, userSvc: userSvc, hub: hub}
}

// GetQuestions returns the question list ranked by the requested order, then
// filtered by search and asker.
func (q *QuestionController) GetQuestions(c *gin.Context) {
	order := service.Order(c.DefaultQuery("order", string(service.OrderNewest)))
	search := c.Query("search")
	askedBy := c.Query("askedBy")

	qs, err := q.questionSvc.GetByFilter(order, search, askedBy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching questions"})
		return
	}
	c.JSON(http.StatusOK, toQuestionResponses(qs))
}

// GetQuestionByID returns one question and records the viewer in its view
// set, broadcasting the updated view state to all connections.
func (q *QuestionController) GetQuestionByID(c *gin.Context) {
	qid, err := strconv.ParseUint(c.Param("qid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question id"})
		return
	}
	viewer := ""
	if u, err := q.userSvc.GetByID(middleware.UserID(c)); err == nil {
		viewer = u.Username
	}
	question, err := q.questionSvc.GetByIDWithView(uint(qid), viewer)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching question"})
		return
	}
	resp := toQuestionResponse(question)
	if payload, err := ws.Marshal(ws.EventViewsUpdate, resp); err == nil {
		q.hub.Broadcast(payload)
	}
	c.JSON(http.StatusOK, resp)
}

type addQuestionRequest struct {
	Title string   `json:"title" binding:"required"`
	Text  string   `json:"text" binding:"required"`
	Tags  []string `json:"tags"`
}

func (q *QuestionController) AddQuestion(c *gin.Context) {
	var req addQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	asker, err := q.userSvc.GetByID(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	question, err := q.questionSvc.Add(req.Title, req.Text, asker.Username, time.Now(), req.Tags)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving question"})
		return
	}
	resp := toQuestionResponse(question)
	if payload, err := ws.Marshal(ws.EventQuestionUpdate, resp); err == nil {
		q.hub.Broadcast(payload)
	}
	c.JSON(http.StatusOK, resp)
}

type voteRequest struct {
	QID      uint   `json:"qid" binding:"required"`
	Username string `json:"username" binding:"required"`
}

func (q *QuestionController) UpvoteQuestion(c *gin.Context) {
	q.vote(c, q.voteSvc.Upvote)
}

func (q *QuestionController) DownvoteQuestion(c *gin.Context) {
	q.vote(c, q.voteSvc.Downvote)
}

// vote runs the toggle and broadcasts the authoritative vote sets to all
// connections; question votes are globally visible, unlike messages.
func (q *QuestionController) vote(c *gin.Context, toggle func(uint, string) (*service.VoteResult, error)) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := toggle(req.QID, req.Username)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error voting on question"})
		return
	}
	payload, err := ws.Marshal(ws.EventVoteUpdate, gin.H{
		"qid":       req.QID,
		"upVotes":   res.UpVotes,
		"downVotes": res.DownVotes,
	})
	if err == nil {
		q.hub.Broadcast(payload)
	} else {
		log.Printf("vote update encode: %v", err)
	}
	c.JSON(http.StatusOK, res)
}

type notifyListRequest struct {
	QID uint   `json:"qid" binding:"required"`
	UID string `json:"uid" binding:"required"`
}

func (q *QuestionController) AddUserToNotifyList(c *gin.Context) {
	q.changeNotifyList(c, true)
}

func (q *QuestionController) RemoveUserFromNotifyList(c *gin.Context) {
	q.changeNotifyList(c, false)
}

func (q *QuestionController) changeNotifyList(c *gin.Context, enabled bool) {
	var req notifyListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := q.questionSvc.SetNotify(req.QID, req.UID, enabled); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating notify list"})
		return
	}
	question, err := q.questionSvc.GetByID(req.QID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching question"})
		return
	}
	c.JSON(http.StatusOK, toQuestionResponse(question))
}
