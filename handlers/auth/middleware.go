package auth

import (
    "net/http"

    "github.com/gin-gonic/gin"

    "referral-outreach-server/models"
    "referral-outreach-server/utils"
)

func AuthMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        authHeader := c.GetHeader("Authorization")
        if authHeader == "" {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
            c.Abort()
            return
        }

        agentID, err := utils.ExtractAgentIDFromToken(authHeader)
        if err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
            c.Abort()
            return
        }

        var agent models.Agent
        if err := utils.PortalDB.First(&agent, agentID).Error; err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Agent not found"})
            c.Abort()
            return
        }

        c.Set("agent", agent)

        c.Next()
    }
}
