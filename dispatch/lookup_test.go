package dispatch

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"referral-outreach-server/models"
)

func createReferralAt(t *testing.T, db *gorm.DB, agentID uint, phone, ref string, createdAt time.Time) models.Referral {
	t.Helper()
	r := models.Referral{
		Reference:     ref,
		AgentID:       agentID,
		ReferralName:  "Jamie",
		ReferralPhone: phone,
		Status:        models.StatusOutreachSent,
		AiEnabled:     true,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create referral: %v", err)
	}
	if err := db.Model(&models.Referral{}).Where("id = ?", r.ID).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("backdate referral: %v", err)
	}
	return r
}

func TestResolveScopesToOwningAgent(t *testing.T) {
	db := newTestDB(t)
	a1 := models.Agent{Name: "Alex", Email: "a1@example.com", Password: "x", TwilioNumber: "+15550000001"}
	a2 := models.Agent{Name: "Blake", Email: "a2@example.com", Password: "x", TwilioNumber: "+15550000002"}
	db.Create(&a1)
	db.Create(&a2)

	phone := "+15550100300"
	createReferralAt(t, db, a1.ID, phone, "r1", time.Now().Add(-2*time.Hour))
	wanted := createReferralAt(t, db, a2.ID, phone, "r2", time.Now().Add(-1*time.Hour))

	d := &Dispatcher{DB: db}
	got, agent, ok := d.resolve(phone, a2.TwilioNumber)
	if !ok {
		t.Fatal("resolve failed")
	}
	if got.ID != wanted.ID {
		t.Errorf("resolved referral %d, want %d (agent-scoped)", got.ID, wanted.ID)
	}
	if agent.ID != a2.ID {
		t.Errorf("resolved agent %d, want %d", agent.ID, a2.ID)
	}
}

func TestResolveFallbackScanMostRecentWins(t *testing.T) {
	db := newTestDB(t)
	a1 := models.Agent{Name: "Alex", Email: "a1@example.com", Password: "x", TwilioNumber: "+15550000001"}
	a2 := models.Agent{Name: "Blake", Email: "a2@example.com", Password: "x"}
	db.Create(&a1)
	db.Create(&a2)

	phone := "+15550100301"
	createReferralAt(t, db, a1.ID, phone, "old", time.Now().Add(-48*time.Hour))
	newest := createReferralAt(t, db, a2.ID, phone, "new", time.Now().Add(-1*time.Hour))

	// the shared number belongs to no agent, so the fallback scan runs
	d := &Dispatcher{DB: db}
	got, agent, ok := d.resolve(phone, "+15559999999")
	if !ok {
		t.Fatal("resolve failed")
	}
	if got.ID != newest.ID {
		t.Errorf("resolved referral %d, want most recent %d", got.ID, newest.ID)
	}
	if agent.ID != a2.ID {
		t.Errorf("resolved agent %d, want %d", agent.ID, a2.ID)
	}
}

func TestResolveOwnedNumberWithoutMatchIsNoMatch(t *testing.T) {
	db := newTestDB(t)
	a1 := models.Agent{Name: "Alex", Email: "a1@example.com", Password: "x", TwilioNumber: "+15550000001"}
	a2 := models.Agent{Name: "Blake", Email: "a2@example.com", Password: "x", TwilioNumber: "+15550000002"}
	db.Create(&a1)
	db.Create(&a2)

	// referral belongs to a2, but the text arrived on a1's dedicated number
	phone := "+15550100302"
	createReferralAt(t, db, a2.ID, phone, "r1", time.Now())

	d := &Dispatcher{DB: db}
	if _, _, ok := d.resolve(phone, a1.TwilioNumber); ok {
		t.Error("dedicated-number lookup must not fall through to other agents")
	}
}

func TestResolveUnknownPhone(t *testing.T) {
	db := newTestDB(t)
	d := &Dispatcher{DB: db}
	if _, _, ok := d.resolve("+15550109999", "+15550000001"); ok {
		t.Error("expected no match")
	}
}
