package controller

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
	"github.com/abeme/go_qa_api/ws"
)

type AnswerController struct {
	answerSvc   service.AnswerService
	questionSvc service.QuestionService
	userSvc     service.UserService
	fanout      *service.Fanout
	hub         *ws.Hub
}

func NewAnswerController(answerSvc service.AnswerService, questionSvc service.QuestionService, userSvc service.UserService, fanout *service.Fanout, hub *ws.Hub) *AnswerController {
	return &AnswerController{answerSvc: answerSvc, questionSvc: questionSvc, userSvc: userSvc, fanout: fanout, hub: hub}
}

type addAnswerRequest struct {
	QID  uint   `json:"qid" binding:"required"`
	Text string `json:"text" binding:"required"`
}

// AddAnswer saves the answer, broadcasts the update, and fans out
// notifications to the question's notify list (minus the answerer). The
// fan-out runs off the request path; notification failures never fail the
// answer itself.
func (a *AnswerController) AddAnswer(c *gin.Context) {
	var req addAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, err := a.userSvc.GetByID(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	ans, err := a.answerSvc.Add(req.QID, req.Text, actor.Username, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding answer"})
		return
	}

	question, err := a.questionSvc.GetByID(req.QID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching question"})
		return
	}
	notifyList, err := a.questionSvc.NotifyList(req.QID)
	if err != nil {
		log.Printf("notify list for question %d: %v", req.QID, err)
		notifyList = nil
	}
	go func() {
		if err := a.fanout.AnswerPosted(question, notifyList, actor.ID, actor.Username); err != nil {
			log.Printf("answer fanout: %v", err)
		}
	}()

	payload, err := ws.Marshal(ws.EventAnswerUpdate, gin.H{"qid": req.QID, "answer": ans})
	if err == nil {
		a.hub.Broadcast(payload)
	}
	c.JSON(http.StatusOK, ans)
}
