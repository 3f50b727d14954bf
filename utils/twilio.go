package utils

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"referral-outreach-server/models"
)

// SMSSender sends a single text message through the SMS gateway.
type SMSSender interface {
	SendSMS(from, to, body string) error
}

// TwilioClient sends messages through the Twilio Messages API.
type TwilioClient struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
}

func NewTwilioClient() *TwilioClient {
	return &TwilioClient{
		client:     &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://api.twilio.com",
		accountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		authToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
	}
}

func (t *TwilioClient) SendSMS(from, to, body string) error {
	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SenderNumber picks the outbound number for an agent: their dedicated
// number when they have one, otherwise the shared tenant number.
func SenderNumber(agent models.Agent) string {
	if agent.TwilioNumber != "" {
		return agent.TwilioNumber
	}
	return os.Getenv("TWILIO_SHARED_NUMBER")
}
