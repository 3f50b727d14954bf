package models

import "time"

// MessageRole identifies who authored a transcript entry.
type MessageRole string

const (
    RoleReferral    MessageRole = "referral"     // inbound text from the referred contact
    RoleAgentAI     MessageRole = "agent-ai"     // automated send (opener, AI reply, or drip)
    RoleAgentManual MessageRole = "agent-manual" // operator send from the dashboard
)

// Message is one entry in a referral's conversation transcript. Rows are
// append-only: the transcript is read back ordered by id and never mutated.
type Message struct {
    ID         uint        `gorm:"primaryKey" json:"id"`
    ReferralID uint        `gorm:"index;not null" json:"referral_id"`
    Role       MessageRole `gorm:"size:16;not null" json:"role"`
    Body       string      `gorm:"type:text" json:"body"`
    // ProviderSID carries the gateway's message id for inbound texts so
    // redelivered webhooks can be recognized and dropped.
    ProviderSID *string   `gorm:"column:provider_sid;uniqueIndex;size:64" json:"provider_sid,omitempty"`
    CreatedAt   time.Time `json:"created_at"`
}
