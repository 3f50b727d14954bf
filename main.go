package main

import (
	"context"
	"log"
	"os"
	"time"

	"referral-outreach-server/dispatch"
	"referral-outreach-server/handlers/auth"
	"referral-outreach-server/handlers/notifications"
	"referral-outreach-server/handlers/referrals"
	"referral-outreach-server/handlers/tasks"
	"referral-outreach-server/handlers/webhook"
	"referral-outreach-server/migrations"
	"referral-outreach-server/outreach"
	"referral-outreach-server/seed"
	"referral-outreach-server/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func init() {
    if err := godotenv.Load(); err != nil {
        log.Println("No .env file found or error loading .env file:", err)
    }
}

func getenvDefault(key, fallback string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return fallback
}

func main() {
    r := gin.Default()

    r.Use(cors.New(cors.Config{
        AllowOrigins:     []string{getenvDefault("DASHBOARD_ORIGIN", "http://localhost:3000")},
        AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
        AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Cron-Secret"},
        ExposeHeaders:    []string{"Content-Length"},
        AllowCredentials: true,
        MaxAge:           12 * time.Hour,
    }))

    utils.ConnectDatabase()

    migrations.MigrateAgents()
    migrations.MigrateReferrals()
    migrations.MigrateNotifications()

    if err := seed.SeedDemoAgent(); err != nil {
        log.Fatalf("Failed to seed agent: %v", err)
    }

    sms := utils.NewTwilioClient()
    ai := utils.NewOpenAIGenerator()

    dispatcher := &dispatch.Dispatcher{
        DB:     utils.PortalDB,
        SMS:    sms,
        AI:     ai,
        Notify: &utils.AgentNotifier{DB: utils.PortalDB},
    }
    worker := &outreach.Worker{DB: utils.PortalDB, SMS: sms, AI: ai}

    webhook.RegisterWebhookRoutes(r, dispatcher)
    tasks.RegisterTaskRoutes(r, worker)
    r.POST("/login", auth.Login)

    protected := r.Group("/")
    protected.Use(auth.AuthMiddleware())
    {
        referrals.RegisterReferralRoutes(protected, sms)
        notifications.RegisterNotificationsRoutes(protected)
        protected.POST("/save-push-token", auth.SavePushToken)
    }

    cr := cron.New()
    if _, err := cr.AddFunc(getenvDefault("DRIP_SWEEP_SCHEDULE", "@every 4h"), func() {
        if sent := worker.RunDripSweep(); sent > 0 {
            log.Printf("Drip sweep sent %d message(s)", sent)
        }
    }); err != nil {
        log.Fatalf("Invalid drip sweep schedule: %v", err)
    }
    if _, err := cr.AddFunc(getenvDefault("OPENER_POLL_SCHEDULE", "@every 15s"), func() {
        worker.RunOpenerPass(context.Background())
    }); err != nil {
        log.Fatalf("Invalid opener poll schedule: %v", err)
    }
    cr.Start()
    defer cr.Stop()

    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }

    if err := r.Run(":" + port); err != nil {
        log.Fatalf("Failed to run server: %v", err)
    }
}
