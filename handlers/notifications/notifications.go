package notifications

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

func GetNotifications(c *gin.Context) {
	agent := c.MustGet("agent").(models.Agent)

	var notifications []models.Notification
	if err := utils.PortalDB.Where("agent_id = ?", agent.ID).Order("created_at DESC").Limit(50).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func MarkNotificationRead(c *gin.Context) {
	agent := c.MustGet("agent").(models.Agent)

	res := utils.PortalDB.Model(&models.Notification{}).
		Where("id = ? AND agent_id = ?", c.Param("id"), agent.ID).
		Update("read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
