package outreach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"referral-outreach-server/models"
	"referral-outreach-server/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Agent{}, &models.Client{}, &models.Referral{}, &models.Message{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type sentSMS struct {
	from, to, body string
}

type fakeSMS struct {
	sent []sentSMS
	err  error
}

func (f *fakeSMS) SendSMS(from, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{from, to, body})
	return nil
}

type fakeAI struct {
	reply string
	err   error
	calls int
}

func (f *fakeAI) GenerateReply(ctx context.Context, history []models.Message, prompt utils.ReplyPrompt) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func seedAgent(t *testing.T, db *gorm.DB) models.Agent {
	t.Helper()
	agent := models.Agent{Name: "Alex", Email: "alex@example.com", Password: "x", TwilioNumber: "+15550000001"}
	if err := db.Create(&agent).Error; err != nil {
		t.Fatalf("create agent: %v", err)
	}
	return agent
}

func seedPending(t *testing.T, db *gorm.DB, agentID uint, dueAt *time.Time) models.Referral {
	t.Helper()
	r := models.Referral{
		Reference:     "ref-opener",
		AgentID:       agentID,
		ClientName:    "Chris",
		ReferralName:  "Jamie",
		ReferralPhone: "+15550100400",
		Status:        models.StatusPending,
		AiEnabled:     true,
		OpenerDueAt:   dueAt,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create referral: %v", err)
	}
	return r
}

func TestOpenerPassSendsDueOpener(t *testing.T) {
	db := newTestDB(t)
	agent := seedAgent(t, db)
	due := time.Now().Add(-time.Minute)
	referral := seedPending(t, db, agent.ID, &due)

	sms := &fakeSMS{}
	w := &Worker{DB: db, SMS: sms, AI: &fakeAI{reply: "Hey Jamie, Alex here - Chris gave me your number."}}

	if sent := w.RunOpenerPass(context.Background()); sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	if len(sms.sent) != 1 || sms.sent[0].to != referral.ReferralPhone {
		t.Fatalf("unexpected sends: %+v", sms.sent)
	}

	var got models.Referral
	db.First(&got, referral.ID)
	if got.Status != models.StatusOutreachSent {
		t.Errorf("status = %s, want outreach-sent", got.Status)
	}
	if got.DripCount != 0 {
		t.Errorf("drip_count = %d, want 0", got.DripCount)
	}
	if got.LastDripAt == nil {
		t.Error("last_drip_at not stamped")
	}
	if got.OpenerDueAt != nil {
		t.Error("opener_due_at not cleared")
	}

	var msgs []models.Message
	db.Where("referral_id = ?", referral.ID).Find(&msgs)
	if len(msgs) != 1 || msgs[0].Role != models.RoleAgentAI {
		t.Errorf("transcript = %+v, want one agent-ai opener", msgs)
	}
}

func TestOpenerPassIgnoresNotYetDue(t *testing.T) {
	db := newTestDB(t)
	agent := seedAgent(t, db)
	due := time.Now().Add(time.Minute)
	seedPending(t, db, agent.ID, &due)

	w := &Worker{DB: db, SMS: &fakeSMS{}, AI: &fakeAI{reply: "x"}}
	if sent := w.RunOpenerPass(context.Background()); sent != 0 {
		t.Fatalf("sent = %d, want 0", sent)
	}
}

func TestOpenerAbortsWhenContactAlreadyReplied(t *testing.T) {
	db := newTestDB(t)
	agent := seedAgent(t, db)
	due := time.Now().Add(-time.Minute)
	referral := seedPending(t, db, agent.ID, &due)

	// a reply landed between scheduling and firing
	db.Model(&models.Referral{}).Where("id = ?", referral.ID).Update("status", models.StatusActive)

	sms := &fakeSMS{}
	ai := &fakeAI{reply: "x"}
	w := &Worker{DB: db, SMS: sms, AI: ai}

	if sent := w.RunOpenerPass(context.Background()); sent != 0 {
		t.Fatalf("sent = %d, want 0", sent)
	}
	if ai.calls != 0 || len(sms.sent) != 0 {
		t.Error("no opener may be generated or sent after a reply")
	}

	var got models.Referral
	db.First(&got, referral.ID)
	if got.OpenerDueAt != nil {
		t.Error("stale opener schedule should be cleared")
	}
	if got.Status != models.StatusActive {
		t.Errorf("status = %s, want active untouched", got.Status)
	}
}

func TestOpenerGenerationFailureLeavesPending(t *testing.T) {
	db := newTestDB(t)
	agent := seedAgent(t, db)
	due := time.Now().Add(-time.Minute)
	referral := seedPending(t, db, agent.ID, &due)

	w := &Worker{DB: db, SMS: &fakeSMS{}, AI: &fakeAI{err: errors.New("model down")}}
	if sent := w.RunOpenerPass(context.Background()); sent != 0 {
		t.Fatalf("sent = %d, want 0", sent)
	}

	var got models.Referral
	db.First(&got, referral.ID)
	if got.Status != models.StatusPending {
		t.Errorf("status = %s, want pending for retry", got.Status)
	}
	if got.OpenerDueAt == nil {
		t.Error("opener must stay scheduled for the next pass")
	}
}

func TestOpenerSendFailureLeavesPending(t *testing.T) {
	db := newTestDB(t)
	agent := seedAgent(t, db)
	due := time.Now().Add(-time.Minute)
	referral := seedPending(t, db, agent.ID, &due)

	w := &Worker{DB: db, SMS: &fakeSMS{err: errors.New("gateway 500")}, AI: &fakeAI{reply: "hi"}}
	if sent := w.RunOpenerPass(context.Background()); sent != 0 {
		t.Fatalf("sent = %d, want 0", sent)
	}

	var got models.Referral
	db.First(&got, referral.ID)
	if got.Status != models.StatusPending {
		t.Errorf("status = %s, want pending for retry", got.Status)
	}
	var n int64
	db.Model(&models.Message{}).Count(&n)
	if n != 0 {
		t.Errorf("nothing may be appended when the send failed, got %d rows", n)
	}
}

func TestOpenerSkipsManualMode(t *testing.T) {
	db := newTestDB(t)
	agent := seedAgent(t, db)
	due := time.Now().Add(-time.Minute)
	referral := seedPending(t, db, agent.ID, &due)
	db.Model(&models.Referral{}).Where("id = ?", referral.ID).Update("ai_enabled", false)

	ai := &fakeAI{reply: "x"}
	w := &Worker{DB: db, SMS: &fakeSMS{}, AI: ai}
	if sent := w.RunOpenerPass(context.Background()); sent != 0 {
		t.Fatalf("sent = %d, want 0", sent)
	}
	if ai.calls != 0 {
		t.Error("generator must not run while automation is paused")
	}
}
