package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"referral-outreach-server/models"
)

func TestSendSMSPostsForm(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		r.ParseForm()
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	c := &TwilioClient{client: srv.Client(), baseURL: srv.URL, accountSID: "AC123", authToken: "tok"}
	if err := c.SendSMS("+15550000001", "+15550100200", "hello"); err != nil {
		t.Fatalf("SendSMS: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotFrom != "+15550000001" || gotTo != "+15550100200" || gotBody != "hello" {
		t.Errorf("form = %q %q %q", gotFrom, gotTo, gotBody)
	}
}

func TestSendSMSSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	}))
	defer srv.Close()

	c := &TwilioClient{client: srv.Client(), baseURL: srv.URL, accountSID: "AC123", authToken: "tok"}
	if err := c.SendSMS("+15550000001", "bogus", "hello"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestIsNoReply(t *testing.T) {
	if !IsNoReply(NoReply) || !IsNoReply("  " + NoReply + "\n") {
		t.Error("sentinel not recognized")
	}
	if IsNoReply("sure, see you then") || IsNoReply("") {
		t.Error("ordinary replies must not be treated as the sentinel")
	}
}

func TestSenderNumberPrefersDedicated(t *testing.T) {
	t.Setenv("TWILIO_SHARED_NUMBER", "+15559990000")

	agent := models.Agent{TwilioNumber: "+15550000001"}
	if got := SenderNumber(agent); got != "+15550000001" {
		t.Errorf("SenderNumber = %q", got)
	}
	if got := SenderNumber(models.Agent{}); got != "+15559990000" {
		t.Errorf("shared fallback = %q", got)
	}
}
