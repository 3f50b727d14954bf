package migrations

import (
	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

func MigrateReferrals() {
	utils.PortalDB.AutoMigrate(&models.Referral{}, &models.Message{})
}
