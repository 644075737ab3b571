package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/abeme/go_qa_api/controller"
	"github.com/abeme/go_qa_api/entity"
	"github.com/abeme/go_qa_api/mail"
	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
	"github.com/abeme/go_qa_api/session"
	"github.com/abeme/go_qa_api/ws"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newMailer() mail.Sender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP_HOST not set, email notifications disabled")
		return mail.Discard{}
	}
	port, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		log.Fatalf("invalid SMTP_PORT: %v", err)
	}
	return mail.NewWorker(mail.Config{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     getenv("EMAIL_FROM", "noreply@localhost"),
	})
}

func main() {
	r := gin.Default()

	// init DB (SQLite via GORM)
	dbFile := getenv("DB_FILE", "dev.db")
	log.Printf("Opening SQLite database file %s", dbFile)
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open sqlite db: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Follow{},
		&entity.Tag{},
		&entity.Question{},
		&entity.QuestionVote{},
		&entity.QuestionView{},
		&entity.QuestionSubscription{},
		&entity.Answer{},
		&entity.Conversation{},
		&entity.ConversationParticipant{},
		&entity.Message{},
		&entity.Notification{},
	); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	// init redis (session store)
	rdb := redis.NewClient(&redis.Options{Addr: getenv("REDIS_ADDR", "localhost:6379")})
	sessions := session.NewRedisStore(rdb, time.Hour)

	// mail worker
	mailer := newMailer()

	// services
	userSvc := service.NewUserService(db)
	questionSvc := service.NewQuestionService(db)
	voteSvc := service.NewVoteService(db)
	answerSvc := service.NewAnswerService(db)
	convSvc := service.NewConversationService(db)
	msgSvc := service.NewMessageService(db)
	notifSvc := service.NewNotificationService(db)

	// ws hub and gate (init before controllers needing them)
	hub := ws.NewHub()
	gate := ws.NewSessionGate(sessions, convSvc)

	fanout := service.NewFanout(notifSvc, userSvc, hub, mailer)

	// controllers
	authCtrl := controller.NewAuthController(userSvc, sessions)
	questionCtrl := controller.NewQuestionController(questionSvc, voteSvc, userSvc, hub)
	answerCtrl := controller.NewAnswerController(answerSvc, questionSvc, userSvc, fanout, hub)
	convCtrl := controller.NewConversationController(convSvc, msgSvc, userSvc)
	msgCtrl := controller.NewMessageController(msgSvc, convSvc, fanout, hub)
	notifCtrl := controller.NewNotificationController(notifSvc)
	userCtrl := controller.NewUserController(userSvc, fanout)

	r.POST("/user/addUser", authCtrl.SignUp)
	r.POST("/auth/login", authCtrl.Login)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(sessions))

	protected.POST("/auth/logout", authCtrl.Logout)
	protected.GET("/auth/validate", authCtrl.Validate)

	protected.GET("/question/getQuestion", questionCtrl.GetQuestions)
	protected.GET("/question/getQuestionById/:qid", questionCtrl.GetQuestionByID)
	protected.POST("/question/addQuestion", questionCtrl.AddQuestion)
	protected.POST("/question/upvoteQuestion", questionCtrl.UpvoteQuestion)
	protected.POST("/question/downvoteQuestion", questionCtrl.DownvoteQuestion)
	protected.PATCH("/question/addUserToNotifyList", questionCtrl.AddUserToNotifyList)
	protected.PATCH("/question/removeUserFromNotifyList", questionCtrl.RemoveUserFromNotifyList)

	protected.POST("/answer/addAnswer", answerCtrl.AddAnswer)

	protected.POST("/conversation/addConversation", convCtrl.AddConversation)
	protected.GET("/conversation/getConversations", convCtrl.GetConversations)
	protected.GET("/conversation/getMessages/:cid", convCtrl.GetMessages)
	protected.PATCH("/conversation/leaveConversation", convCtrl.LeaveConversation)
	protected.PATCH("/conversation/addUserToNotifyList", convCtrl.AddUserToNotifyList)
	protected.PATCH("/conversation/removeUserFromNotifyList", convCtrl.RemoveUserFromNotifyList)

	protected.POST("/message/addMessage", msgCtrl.AddMessage)

	protected.POST("/notification/addNotification", notifCtrl.AddNotification)
	protected.GET("/notification/getNotificationById/:nid", notifCtrl.GetNotification)
	protected.GET("/notification/getNotifications/:uid", notifCtrl.GetNotifications)
	protected.DELETE("/notification/deleteNotificationById/:uid/:nid", notifCtrl.DeleteNotification)
	protected.DELETE("/notification/deleteAllNotifications/:uid", notifCtrl.DeleteAllNotifications)

	protected.GET("/user/getUser/:uid", userCtrl.GetUser)
	protected.POST("/user/followUser", userCtrl.FollowUser)
	protected.PATCH("/user/updateEmailNotifications", userCtrl.UpdateEmailNotifications)

	// ws endpoint (public: anonymous connections get broadcasts only)
	r.GET("/ws", func(c *gin.Context) {
		ws.ServeWS(hub, gate, c)
	})

	port := getenv("PORT", "8000")
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
