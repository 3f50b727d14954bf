// seed/seed.go
package seed

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

// SeedDemoAgent creates a first agent account from SEED_AGENT_* env vars so
// a fresh deployment has someone to log in as. Skipped when the agent
// already exists or no seed email is configured.
func SeedDemoAgent() error {
	email := os.Getenv("SEED_AGENT_EMAIL")
	if email == "" {
		return nil
	}

	var existing models.Agent
	err := utils.PortalDB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Println("Seed agent already exists. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(os.Getenv("SEED_AGENT_PASSWORD")), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	agent := models.Agent{
		Name:         os.Getenv("SEED_AGENT_NAME"),
		Email:        email,
		Password:     string(hash),
		TwilioNumber: os.Getenv("SEED_AGENT_NUMBER"),
		BookingLink:  os.Getenv("SEED_AGENT_BOOKING_LINK"),
	}

	if err := utils.PortalDB.Create(&agent).Error; err != nil {
		return err
	}

	log.Println("Seed agent created successfully.")
	return nil
}
