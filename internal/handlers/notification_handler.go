package handlers

import (
	"log"
	"net/http"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/models"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetNotifications returns the caller's own feed, newest first.
func GetNotifications(c *gin.Context) {
	p := principal(c)

	var notifications []models.Notification
	query := config.DB.Model(&models.Notification{}).
		Where("user_id = ?", p.UserID).
		Order("created_at DESC")
	if err := paginate(c, query).Find(&notifications).Error; err != nil {
		log.Printf("Error listing notifications: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to retrieve notifications.")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func GetNotification(c *gin.Context) {
	p := principal(c)

	var notification models.Notification
	if err := config.DB.First(&notification, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Notification not found.")
		return
	}
	if notification.UserID != p.UserID {
		utils.Error(c, http.StatusForbidden, "You are not authorized to see this notification.")
		return
	}
	c.JSON(http.StatusOK, notification)
}

func DeleteNotification(c *gin.Context) {
	p := principal(c)

	var notification models.Notification
	if err := config.DB.First(&notification, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Notification not found.")
		return
	}
	if notification.UserID != p.UserID {
		utils.Error(c, http.StatusForbidden, "You are not authorized to delete this notification.")
		return
	}

	if err := config.DB.Delete(&notification).Error; err != nil {
		log.Printf("Error deleting notification: %v", err)
		utils.Error(c, http.StatusInternalServerError, "Failed to delete notification.")
		return
	}
	c.Status(http.StatusNoContent)
}
