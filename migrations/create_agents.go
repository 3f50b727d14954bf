package migrations

import (
	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

func MigrateAgents() {
	utils.PortalDB.AutoMigrate(&models.Agent{}, &models.Client{})
}
