package models

import (
    "time"

    "gorm.io/gorm"
)

// ReferralStatus tracks where a referral sits in the outreach lifecycle.
type ReferralStatus string

const (
    StatusPending      ReferralStatus = "pending"
    StatusOutreachSent ReferralStatus = "outreach-sent"
    StatusActive       ReferralStatus = "active"
    StatusDrip1        ReferralStatus = "drip-1"
    StatusDrip2        ReferralStatus = "drip-2"
    StatusDripComplete ReferralStatus = "drip-complete"
    StatusBookingSent  ReferralStatus = "booking-sent"
    StatusBooked       ReferralStatus = "booked"
    StatusClosed       ReferralStatus = "closed"
)

type Referral struct {
    gorm.Model
    Reference         string         `gorm:"uniqueIndex;size:36" json:"reference"`
    AgentID           uint           `gorm:"index;not null" json:"agent_id"`
    ClientID          uint           `json:"client_id"`
    ClientName        string         `json:"client_name"`
    ReferralName      string         `json:"referral_name"`
    ReferralPhone     string         `gorm:"index" json:"referral_phone"`
    Status            ReferralStatus `gorm:"size:20;index;default:pending" json:"status"`
    // No default tag: a zero value here must mean false, and every
    // creation path sets the flag explicitly.
    AiEnabled         bool           `gorm:"column:ai_enabled" json:"ai_enabled"`
    DripCount         int            `gorm:"default:0" json:"drip_count"`
    LastDripAt        *time.Time     `gorm:"column:last_drip_at" json:"last_drip_at"`
    OpenerDueAt       *time.Time     `gorm:"column:opener_due_at;index" json:"opener_due_at"`
    GatheredInfo      string         `gorm:"type:text" json:"gathered_info"`
    AppointmentBooked bool           `gorm:"default:false" json:"appointment_booked"`
}

// DripAnchor is the timestamp drip delays are measured from: the last
// automated send, or creation time if nothing has gone out yet.
func (r *Referral) DripAnchor() time.Time {
    if r.LastDripAt != nil {
        return *r.LastDripAt
    }
    return r.CreatedAt
}
