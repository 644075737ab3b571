package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abeme/go_qa_api/middleware"
	"github.com/abeme/go_qa_api/service"
)

type UserController struct {
	userSvc service.UserService
	fanout  *service.Fanout
}

func NewUserController(userSvc service.UserService, fanout *service.Fanout) *UserController {
	return &UserController{userSvc: userSvc, fanout: fanout}
}

func (uc *UserController) GetUser(c *gin.Context) {
	u, err := uc.userSvc.GetByID(c.Param("uid"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching user"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type followRequest struct {
	UID string `json:"uid" binding:"required"`
}

// FollowUser toggles a follow edge from the session user to the target.
// A new follow notifies the followed user; an unfollow is silent.
func (uc *UserController) FollowUser(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	follower, err := uc.userSvc.GetByID(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	followed, err := uc.userSvc.ToggleFollow(follower.ID, req.UID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if followed {
		followee, err := uc.userSvc.GetByID(req.UID)
		if err == nil {
			go func() {
				if err := uc.fanout.UserFollowed(follower, followee); err != nil {
					log.Printf("follow fanout: %v", err)
				}
			}()
		}
	}
	c.JSON(http.StatusOK, gin.H{"following": followed})
}

type emailNotificationsRequest struct {
	Enabled bool `json:"enabled"`
}

func (uc *UserController) UpdateEmailNotifications(c *gin.Context) {
	var req emailNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := uc.userSvc.SetEmailNotifications(middleware.UserID(c), req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating preference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email_notifications": req.Enabled})
}
