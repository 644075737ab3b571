package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abeme/go_qa_api/service"
)

type NotificationController struct {
	notifSvc service.NotificationService
}

func NewNotificationController(notifSvc service.NotificationService) *NotificationController {
	return &NotificationController{notifSvc: notifSvc}
}

type addNotificationRequest struct {
	UID   string `json:"uid" binding:"required"`
	Notif struct {
		Type     string `json:"type" binding:"required"`
		Text     string `json:"text" binding:"required"`
		TargetID string `json:"targetId" binding:"required"`
	} `json:"notif" binding:"required"`
}

func (nc *NotificationController) AddNotification(c *gin.Context) {
	var req addNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	n, err := nc.notifSvc.Create(req.UID, req.Notif.Type, req.Notif.Text, req.Notif.TargetID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error adding notification"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (nc *NotificationController) GetNotification(c *gin.Context) {
	nid, err := strconv.ParseUint(c.Param("nid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	n, err := nc.notifSvc.GetByID(uint(nid))
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching notification"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (nc *NotificationController) GetNotifications(c *gin.Context) {
	ns, err := nc.notifSvc.ListForUser(c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": ns})
}

// DeleteNotification removes a single notification. A missing notification is
// an explicit error, never silently treated as success.
func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	nid, err := strconv.ParseUint(c.Param("nid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := nc.notifSvc.Delete(c.Param("uid"), uint(nid)); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": nid})
}

// DeleteAllNotifications deletes every notification of the user; a partial
// failure surfaces as an error so the caller can retry.
func (nc *NotificationController) DeleteAllNotifications(c *gin.Context) {
	if err := nc.notifSvc.DeleteAll(c.Param("uid")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": "all"})
}
