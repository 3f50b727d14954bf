package models

import "time"

type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AgentID    uint      `gorm:"index" json:"agent_id"`
	ReferralID uint      `json:"referral_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
