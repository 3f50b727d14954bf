package outreach

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"referral-outreach-server/lifecycle"
	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

// Worker runs the time-triggered side of outreach: the delayed 1:1 opener
// and the scripted drip follow-ups.
type Worker struct {
	DB  *gorm.DB
	SMS utils.SMSSender
	AI  utils.ReplyGenerator
}

// RunOpenerPass sends the 1:1 opener to every pending referral whose delay
// has elapsed. The due time lives on the referral row, so a restart between
// intake and the opener loses nothing: the next pass picks it up. Returns
// the number of openers sent.
func (w *Worker) RunOpenerPass(ctx context.Context) int {
	var due []models.Referral
	err := w.DB.Where("status = ? AND ai_enabled = ? AND opener_due_at IS NOT NULL AND opener_due_at <= ?",
		models.StatusPending, true, time.Now()).
		Find(&due).Error
	if err != nil {
		log.Printf("opener: querying due referrals failed: %v", err)
		return 0
	}

	sent := 0
	for i := range due {
		if w.sendOpener(ctx, due[i].ID) {
			sent++
		}
	}
	return sent
}

func (w *Worker) sendOpener(ctx context.Context, referralID uint) bool {
	// Re-fetch: the contact may have replied while the opener sat queued.
	var referral models.Referral
	if err := w.DB.First(&referral, referralID).Error; err != nil {
		log.Printf("opener: referral %d vanished: %v", referralID, err)
		return false
	}
	if referral.Status != models.StatusPending || !referral.AiEnabled {
		w.DB.Model(&models.Referral{}).Where("id = ?", referral.ID).Update("opener_due_at", nil)
		return false
	}
	if !utils.ValidPhone(referral.ReferralPhone) {
		log.Printf("opener: referral %d has invalid phone %q, unscheduling", referral.ID, referral.ReferralPhone)
		w.DB.Model(&models.Referral{}).Where("id = ?", referral.ID).Update("opener_due_at", nil)
		return false
	}

	var agent models.Agent
	if err := w.DB.First(&agent, referral.AgentID).Error; err != nil {
		log.Printf("opener: agent %d for referral %d not found: %v", referral.AgentID, referral.ID, err)
		return false
	}

	opener, err := w.AI.GenerateReply(ctx, nil, utils.ReplyPrompt{
		AgentName:    agent.Name,
		ClientName:   referral.ClientName,
		ReferralName: referral.ReferralName,
		BookingLink:  agent.BookingLink,
	})
	if err != nil || utils.IsNoReply(opener) || opener == "" {
		// stays pending; the next pass retries
		log.Printf("opener: generation failed for referral %d: %v", referral.ID, err)
		return false
	}

	if err := w.SMS.SendSMS(utils.SenderNumber(agent), referral.ReferralPhone, opener); err != nil {
		log.Printf("opener: send failed for referral %d: %v", referral.ID, err)
		return false
	}

	if err := w.DB.Create(&models.Message{
		ReferralID: referral.ID,
		Role:       models.RoleAgentAI,
		Body:       opener,
	}).Error; err != nil {
		log.Printf("opener: persisting opener for referral %d failed: %v", referral.ID, err)
	}

	ok, err := lifecycle.Transition(w.DB, referral.ID,
		[]models.ReferralStatus{models.StatusPending},
		models.StatusOutreachSent,
		map[string]interface{}{
			"drip_count":    0,
			"last_drip_at":  time.Now(),
			"opener_due_at": nil,
		})
	if err != nil {
		log.Printf("opener: status update failed for referral %d: %v", referral.ID, err)
		return false
	}
	return ok
}
