package dispatch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"referral-outreach-server/lifecycle"
	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

// InboundMessage is one webhook delivery from the SMS gateway.
type InboundMessage struct {
	From        string
	To          string
	Body        string
	ProviderSID string
}

// Notifier alerts the owning agent that a referral wrote back.
type Notifier interface {
	NotifyAgent(agent models.Agent, referral models.Referral, body string)
}

// Dispatcher handles inbound texts: persist, decide whether the AI replies,
// send the reply, and advance the referral's status.
type Dispatcher struct {
	DB     *gorm.DB
	SMS    utils.SMSSender
	AI     utils.ReplyGenerator
	Notify Notifier // optional
}

// Handle processes a single inbound message end to end. The pipeline is
// strictly ordered: persist-inbound, gate-check, generate, send,
// persist-outbound, status-update. A failure at any step never undoes an
// earlier step; the only error Handle returns is a failure to persist the
// inbound message itself, since that write is the durability guarantee the
// rest of the design leans on.
func (d *Dispatcher) Handle(ctx context.Context, in InboundMessage) error {
	if strings.TrimSpace(in.Body) == "" || !utils.ValidPhone(in.From) {
		log.Printf("dispatch: dropping malformed inbound from %q", in.From)
		return nil
	}

	// Gateways redeliver webhooks; a SID we've already stored is a replay.
	if in.ProviderSID != "" {
		var n int64
		if err := d.DB.Model(&models.Message{}).Where("provider_sid = ?", in.ProviderSID).Count(&n).Error; err == nil && n > 0 {
			return nil
		}
	}

	referral, agent, ok := d.resolve(in.From, in.To)
	if !ok {
		// unknown sender: acknowledge the gateway and move on
		return nil
	}

	msg := models.Message{
		ReferralID: referral.ID,
		Role:       models.RoleReferral,
		Body:       in.Body,
	}
	if in.ProviderSID != "" {
		sid := in.ProviderSID
		msg.ProviderSID = &sid
	}
	if err := d.DB.Create(&msg).Error; err != nil {
		return fmt.Errorf("persist inbound message for referral %d: %w", referral.ID, err)
	}

	// The contact replied, so the automated cadence stops regardless of
	// anything that happens downstream.
	if _, err := lifecycle.Transition(d.DB, referral.ID, lifecycle.PreResponseStatuses, models.StatusActive, nil); err != nil {
		log.Printf("dispatch: status update failed for referral %d: %v", referral.ID, err)
	}

	if d.Notify != nil {
		d.Notify.NotifyAgent(agent, referral, in.Body)
	}

	if !referral.AiEnabled {
		// manual mode: a human owns this conversation now
		return nil
	}

	var history []models.Message
	if err := d.DB.Where("referral_id = ?", referral.ID).Order("id ASC").Find(&history).Error; err != nil {
		log.Printf("dispatch: loading transcript for referral %d failed: %v", referral.ID, err)
		return nil
	}

	reply, err := d.AI.GenerateReply(ctx, history, utils.ReplyPrompt{
		AgentName:    agent.Name,
		ClientName:   referral.ClientName,
		ReferralName: referral.ReferralName,
		BookingLink:  agent.BookingLink,
	})
	if err != nil {
		// the inbound text is already durable; a human can pick it up
		log.Printf("dispatch: reply generation failed for referral %d: %v", referral.ID, err)
		return nil
	}
	if utils.IsNoReply(reply) || reply == "" {
		return nil
	}

	if err := d.SMS.SendSMS(utils.SenderNumber(agent), referral.ReferralPhone, reply); err != nil {
		log.Printf("dispatch: sending reply for referral %d failed: %v", referral.ID, err)
		return nil
	}

	if err := d.DB.Create(&models.Message{
		ReferralID: referral.ID,
		Role:       models.RoleAgentAI,
		Body:       reply,
	}).Error; err != nil {
		log.Printf("dispatch: persisting reply for referral %d failed: %v", referral.ID, err)
	}

	if agent.BookingLink != "" && strings.Contains(reply, agent.BookingLink) {
		if _, err := lifecycle.Transition(d.DB, referral.ID, []models.ReferralStatus{models.StatusActive}, models.StatusBookingSent, nil); err != nil {
			log.Printf("dispatch: booking-sent update failed for referral %d: %v", referral.ID, err)
		}
	}

	return nil
}
