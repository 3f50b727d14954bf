package migrations

import (
	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

func MigrateNotifications() {
	utils.PortalDB.AutoMigrate(&models.Notification{})
}
