package auth

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "golang.org/x/crypto/bcrypt"

    "referral-outreach-server/models"
    "referral-outreach-server/utils"
)

func Login(c *gin.Context) {
    var input struct {
        Email    string `json:"email"`
        Password string `json:"password"`
    }

    if err := c.ShouldBindJSON(&input); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a valid email and password."})
        return
    }

    var agent models.Agent
    if err := utils.PortalDB.Where("email = ?", input.Email).First(&agent).Error; err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
        return
    }

    if err := bcrypt.CompareHashAndPassword([]byte(agent.Password), []byte(input.Password)); err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
        return
    }

    tokenString, err := utils.GenerateAccessToken(agent.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "message": "Login successful.",
        "token":   tokenString,
        "agent": gin.H{
            "id":            agent.ID,
            "email":         agent.Email,
            "name":          agent.Name,
            "twilio_number": agent.TwilioNumber,
            "booking_link":  agent.BookingLink,
        },
    })
}
