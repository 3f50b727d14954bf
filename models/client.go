package models

import "gorm.io/gorm"

// Client is an existing customer of an agent, the person who refers contacts.
type Client struct {
    gorm.Model
    AgentID uint   `gorm:"index" json:"agent_id"`
    Name    string `json:"name"`
    Phone   string `json:"phone"`
}
