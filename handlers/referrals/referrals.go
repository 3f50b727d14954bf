package referrals

import (
    "encoding/json"
    "log"
    "net/http"
    "os"
    "strconv"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "referral-outreach-server/lifecycle"
    "referral-outreach-server/models"
    "referral-outreach-server/utils"
)

// Handler carries the SMS gateway so intake acknowledgments and manual
// sends go out through the same client as the automated pipeline.
type Handler struct {
    SMS utils.SMSSender
}

func openerDelay() time.Duration {
    if s := os.Getenv("OPENER_DELAY_SECONDS"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 {
            return time.Duration(n) * time.Second
        }
    }
    return 45 * time.Second
}

// SubmitReferral creates a referral in pending, fires the group
// acknowledgment, and schedules the delayed 1:1 opener by stamping its due
// time on the row. The opener worker picks it up from there, so the
// schedule survives a restart of this process.
func (h *Handler) SubmitReferral(c *gin.Context) {
    var input struct {
        ClientID      uint   `json:"client_id"`
        ClientName    string `json:"client_name"`
        ReferralName  string `json:"referral_name" binding:"required"`
        ReferralPhone string `json:"referral_phone" binding:"required"`
    }

    if err := c.ShouldBindJSON(&input); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    if !utils.ValidPhone(input.ReferralPhone) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Referral phone must be in E.164 format"})
        return
    }

    agent := c.MustGet("agent").(models.Agent)

    clientName := input.ClientName
    if input.ClientID != 0 {
        var client models.Client
        if err := utils.PortalDB.Where("id = ? AND agent_id = ?", input.ClientID, agent.ID).First(&client).Error; err != nil {
            c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
            return
        }
        clientName = client.Name
    }

    due := time.Now().Add(openerDelay())
    referral := models.Referral{
        Reference:     uuid.NewString(),
        AgentID:       agent.ID,
        ClientID:      input.ClientID,
        ClientName:    clientName,
        ReferralName:  input.ReferralName,
        ReferralPhone: input.ReferralPhone,
        Status:        models.StatusPending,
        AiEnabled:     true,
        OpenerDueAt:   &due,
    }

    if err := utils.PortalDB.Create(&referral).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit referral"})
        return
    }

    ack := lifecycle.AcknowledgmentMessage(referral.ReferralName, referral.ClientName, agent.Name)
    if err := h.SMS.SendSMS(utils.SenderNumber(agent), referral.ReferralPhone, ack); err != nil {
        // the opener still goes out later; intake does not fail on this
        log.Printf("referrals: acknowledgment send failed for referral %d: %v", referral.ID, err)
    } else if err := utils.PortalDB.Create(&models.Message{
        ReferralID: referral.ID,
        Role:       models.RoleAgentAI,
        Body:       ack,
    }).Error; err != nil {
        log.Printf("referrals: persisting acknowledgment for referral %d failed: %v", referral.ID, err)
    }

    c.JSON(http.StatusOK, gin.H{"message": "Referral submitted successfully", "referral": referral})
}

func (h *Handler) GetReferrals(c *gin.Context) {
    agent := c.MustGet("agent").(models.Agent)

    var referrals []models.Referral
    if err := utils.PortalDB.Where("agent_id = ?", agent.ID).Order("created_at DESC").Find(&referrals).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"referrals": referrals})
}

// fetchOwned loads a referral by path id, scoped to the signed-in agent.
func fetchOwned(c *gin.Context) (models.Referral, bool) {
    agent := c.MustGet("agent").(models.Agent)

    var referral models.Referral
    if err := utils.PortalDB.Where("id = ? AND agent_id = ?", c.Param("id"), agent.ID).First(&referral).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "Referral not found"})
        return models.Referral{}, false
    }
    return referral, true
}

func (h *Handler) GetConversation(c *gin.Context) {
    referral, ok := fetchOwned(c)
    if !ok {
        return
    }

    var messages []models.Message
    if err := utils.PortalDB.Where("referral_id = ?", referral.ID).Order("id ASC").Find(&messages).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"referral": referral, "messages": messages})
}

// ManualMessage lets the operator text the referral directly. Sending takes
// the conversation out of automated mode until ResumeAutomation is called;
// failures surface synchronously since a human is waiting on the result.
func (h *Handler) ManualMessage(c *gin.Context) {
    referral, ok := fetchOwned(c)
    if !ok {
        return
    }

    var input struct {
        Body string `json:"body" binding:"required"`
    }
    if err := c.ShouldBindJSON(&input); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Message body is required"})
        return
    }

    agent := c.MustGet("agent").(models.Agent)

    if err := h.SMS.SendSMS(utils.SenderNumber(agent), referral.ReferralPhone, input.Body); err != nil {
        log.Printf("referrals: manual send failed for referral %d: %v", referral.ID, err)
        c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send message"})
        return
    }

    if err := utils.PortalDB.Create(&models.Message{
        ReferralID: referral.ID,
        Role:       models.RoleAgentManual,
        Body:       input.Body,
    }).Error; err != nil {
        log.Printf("referrals: persisting manual message for referral %d failed: %v", referral.ID, err)
    }

    if err := utils.PortalDB.Model(&models.Referral{}).Where("id = ?", referral.ID).Update("ai_enabled", false).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Message sent but failed to pause automation"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Message sent", "ai_enabled": false})
}

// ResumeAutomation re-enables AI replies and drips. It touches nothing
// else: the referral resumes from whatever status it holds.
func (h *Handler) ResumeAutomation(c *gin.Context) {
    referral, ok := fetchOwned(c)
    if !ok {
        return
    }

    if err := utils.PortalDB.Model(&models.Referral{}).Where("id = ?", referral.ID).Update("ai_enabled", true).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resume automation"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Automation resumed", "ai_enabled": true})
}

func (h *Handler) BookAppointment(c *gin.Context) {
    referral, ok := fetchOwned(c)
    if !ok {
        return
    }

    moved, err := lifecycle.Transition(utils.PortalDB, referral.ID, lifecycle.OpenStatuses, models.StatusBooked,
        map[string]interface{}{"appointment_booked": true})
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book appointment"})
        return
    }
    if !moved {
        c.JSON(http.StatusConflict, gin.H{"error": "Referral can no longer be booked"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Appointment booked"})
}

func (h *Handler) CloseReferral(c *gin.Context) {
    referral, ok := fetchOwned(c)
    if !ok {
        return
    }

    moved, err := lifecycle.Transition(utils.PortalDB, referral.ID, lifecycle.OpenStatuses, models.StatusClosed, nil)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close referral"})
        return
    }
    if !moved {
        c.JSON(http.StatusConflict, gin.H{"error": "Referral is already in a terminal status"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Referral closed"})
}

func (h *Handler) UpdateGatheredInfo(c *gin.Context) {
    referral, ok := fetchOwned(c)
    if !ok {
        return
    }

    var info map[string]interface{}
    if err := c.ShouldBindJSON(&info); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gathered info payload"})
        return
    }

    raw, err := json.Marshal(info)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gathered info payload"})
        return
    }

    if err := utils.PortalDB.Model(&models.Referral{}).Where("id = ?", referral.ID).Update("gathered_info", string(raw)).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update gathered info"})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Gathered info updated"})
}

func RegisterReferralRoutes(r *gin.RouterGroup, sms utils.SMSSender) {
    h := &Handler{SMS: sms}
    r.POST("/referrals", h.SubmitReferral)
    r.GET("/referrals", h.GetReferrals)
    r.GET("/referrals/:id/conversation", h.GetConversation)
    r.POST("/referrals/:id/manual-message", h.ManualMessage)
    r.POST("/referrals/:id/resume-automation", h.ResumeAutomation)
    r.POST("/referrals/:id/book", h.BookAppointment)
    r.POST("/referrals/:id/close", h.CloseReferral)
    r.PUT("/referrals/:id/gathered-info", h.UpdateGatheredInfo)
}
