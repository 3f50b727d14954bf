package dispatch

import (
	"referral-outreach-server/models"
)

// resolve maps an inbound (from, to) pair to a referral and its agent.
// When the destination is an agent's dedicated number the search is scoped
// to that agent's referrals. When nobody owns the number (shared or test
// number) it falls back to scanning all referrals for the sender's phone.
// The fallback is the slow path; most-recent match wins either way.
func (d *Dispatcher) resolve(from, to string) (models.Referral, models.Agent, bool) {
	var agent models.Agent
	if err := d.DB.Where("twilio_number = ?", to).First(&agent).Error; err == nil {
		var referral models.Referral
		err := d.DB.Where("agent_id = ? AND referral_phone = ?", agent.ID, from).
			Order("created_at DESC").
			First(&referral).Error
		if err != nil {
			return models.Referral{}, models.Agent{}, false
		}
		return referral, agent, true
	}

	var referral models.Referral
	err := d.DB.Where("referral_phone = ?", from).
		Order("created_at DESC").
		First(&referral).Error
	if err != nil {
		return models.Referral{}, models.Agent{}, false
	}
	if err := d.DB.First(&agent, referral.AgentID).Error; err != nil {
		return models.Referral{}, models.Agent{}, false
	}
	return referral, agent, true
}
