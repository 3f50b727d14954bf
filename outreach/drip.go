package outreach

import (
	"log"
	"time"

	"gorm.io/gorm"

	"referral-outreach-server/lifecycle"
	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

// RunDripSweep walks every agent's unanswered referrals and sends whichever
// scripted follow-up is overdue, advancing each referral one drip stage.
// A failure on one referral never stops the sweep. Returns the number of
// messages sent.
func (w *Worker) RunDripSweep() int {
	var agents []models.Agent
	if err := w.DB.Find(&agents).Error; err != nil {
		log.Printf("drip: listing agents failed: %v", err)
		return 0
	}

	now := time.Now()
	sent := 0
	for i := range agents {
		var referrals []models.Referral
		err := w.DB.Where("agent_id = ? AND ai_enabled = ? AND status IN ?",
			agents[i].ID, true, lifecycle.DripEligibleStatuses).
			Find(&referrals).Error
		if err != nil {
			log.Printf("drip: listing referrals for agent %d failed: %v", agents[i].ID, err)
			continue
		}
		for j := range referrals {
			if w.sendDrip(agents[i], referrals[j], now) {
				sent++
			}
		}
	}
	return sent
}

func (w *Worker) sendDrip(agent models.Agent, referral models.Referral, now time.Time) bool {
	required, ok := lifecycle.DripDelay(referral.Status)
	if !ok {
		return false
	}
	if now.Sub(referral.DripAnchor()) < required {
		return false
	}

	body, ok := lifecycle.DripTemplate(referral.Status, referral.ReferralName, referral.ClientName, agent.Name)
	if !ok || body == "" {
		return false
	}
	if !utils.ValidPhone(referral.ReferralPhone) {
		log.Printf("drip: skipping referral %d: invalid phone %q", referral.ID, referral.ReferralPhone)
		return false
	}

	if err := w.SMS.SendSMS(utils.SenderNumber(agent), referral.ReferralPhone, body); err != nil {
		// state untouched; the next sweep retries
		log.Printf("drip: send failed for referral %d: %v", referral.ID, err)
		return false
	}

	if err := w.DB.Create(&models.Message{
		ReferralID: referral.ID,
		Role:       models.RoleAgentAI,
		Body:       body,
	}).Error; err != nil {
		log.Printf("drip: persisting message for referral %d failed: %v", referral.ID, err)
	}

	next, _ := lifecycle.NextDripStatus(referral.Status)
	ok, err := lifecycle.Transition(w.DB, referral.ID,
		[]models.ReferralStatus{referral.Status},
		next,
		map[string]interface{}{
			"drip_count":   gorm.Expr("drip_count + 1"),
			"last_drip_at": now,
		})
	if err != nil {
		log.Printf("drip: status update failed for referral %d: %v", referral.ID, err)
		return false
	}
	if !ok {
		// the referral moved under us (a reply landed mid-sweep); the
		// message went out but the contact is active now, so stop here
		log.Printf("drip: referral %d left %s before advance", referral.ID, referral.Status)
		return false
	}
	return true
}
