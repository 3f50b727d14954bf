package utils

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"referral-outreach-server/models"
)

// AgentNotifier records a dashboard notification and pings the owning agent
// when a referral writes back. Delivery is best-effort: a failed push never
// blocks the conversation pipeline.
type AgentNotifier struct {
	DB *gorm.DB
}

func (n *AgentNotifier) NotifyAgent(agent models.Agent, referral models.Referral, body string) {
	title := fmt.Sprintf("%s replied", referral.ReferralName)

	if err := n.DB.Create(&models.Notification{
		AgentID:    agent.ID,
		ReferralID: referral.ID,
		Title:      title,
		Body:       body,
	}).Error; err != nil {
		log.Printf("Failed to record notification for agent %d: %v", agent.ID, err)
	}

	if agent.PushToken != "" {
		err := SendPushNotification(agent.PushToken, title, body, map[string]interface{}{
			"referral_id": referral.ID,
		})
		if err == nil {
			return
		}
		log.Printf("Push to agent %d failed: %v", agent.ID, err)
	}

	if agent.Email != "" {
		SendAlertEmail(agent.Email, title, fmt.Sprintf("%s wrote back:\n\n%s", referral.ReferralName, body))
	}
}
