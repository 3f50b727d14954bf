package auth

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "referral-outreach-server/models"
    "referral-outreach-server/utils"
)

func SavePushToken(c *gin.Context) {
    var req struct {
        PushToken string `json:"push_token" binding:"required"`
    }

    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
        return
    }

    agent := c.MustGet("agent").(models.Agent)

    if err := utils.PortalDB.Model(&models.Agent{}).Where("id = ?", agent.ID).Update("push_token", req.PushToken).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save push token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Push token saved"})
}
