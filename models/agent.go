package models

import "gorm.io/gorm"

// Agent is a salesperson receiving referrals. Each agent may own a dedicated
// outbound number; agents without one share the tenant-wide number.
type Agent struct {
    gorm.Model
    Name         string `gorm:"not null" json:"name"`
    Email        string `gorm:"unique;not null" json:"email"`
    Password     string `gorm:"not null" json:"-"`
    TwilioNumber string `gorm:"column:twilio_number;index" json:"twilio_number"`
    BookingLink  string `gorm:"column:booking_link" json:"booking_link"`
    PushToken    string `gorm:"column:push_token" json:"push_token"`
}
