package controllers

import (
	"github.com/Govind-619/StoreSphere/config"
	"github.com/Govind-619/StoreSphere/models"
	"github.com/Govind-619/StoreSphere/utils"
	"github.com/gin-gonic/gin"
)

const notificationFeedSize = 50

// GetNotifications returns the latest admin notifications with the unread count
func GetNotifications(c *gin.Context) {
	utils.LogInfo("GetNotifications called")
	query := config.DB.Model(&models.Notification{})
	if kind := c.Query("type"); kind != "" {
		query = query.Where("type = ?", kind)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc, id desc").Limit(notificationFeedSize).Find(&notifications).Error; err != nil {
		utils.LogError("Failed to fetch notifications: %v", err)
		utils.InternalServerError(c, "Failed to fetch notifications", err.Error())
		return
	}

	var unread int64
	config.DB.Model(&models.Notification{}).Where("is_read = ?", false).Count(&unread)

	utils.Success(c, "Notifications retrieved successfully", gin.H{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkNotificationRead marks one notification as read
func MarkNotificationRead(c *gin.Context) {
	utils.LogInfo("MarkNotificationRead called")
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var notification models.Notification
	if err := config.DB.First(&notification, id).Error; err != nil {
		utils.NotFound(c, "Notification not found")
		return
	}
	notification.IsRead = true
	if err := config.DB.Save(&notification).Error; err != nil {
		utils.LogError("Failed to update notification %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update notification", err.Error())
		return
	}
	utils.Success(c, "Notification marked as read", notification)
}

// MarkAllNotificationsRead clears the unread feed
func MarkAllNotificationsRead(c *gin.Context) {
	utils.LogInfo("MarkAllNotificationsRead called")
	res := config.DB.Model(&models.Notification{}).Where("is_read = ?", false).Update("is_read", true)
	if res.Error != nil {
		utils.LogError("Failed to mark notifications read: %v", res.Error)
		utils.InternalServerError(c, "Failed to update notifications", res.Error.Error())
		return
	}
	utils.Success(c, "All notifications marked as read", gin.H{"updated": res.RowsAffected})
}
