package utils

import (
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// SendAlertEmail emails an agent directly, used as the fallback channel when
// they have no registered push token.
func SendAlertEmail(email, subject, body string) {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_SENDER"))
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		465,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send alert email to %s: %v", email, err)
		return
	}

	log.Printf("Alert email sent to %s", email)
}
