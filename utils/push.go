package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type expoPushMessage struct {
	To    string                 `json:"to"`
	Sound string                 `json:"sound"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// SendPushNotification delivers a push message to an agent's device via the
// Expo push service.
func SendPushNotification(pushToken, title, body string, data map[string]interface{}) error {
	msg := expoPushMessage{
		To:    pushToken,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal push message: %w", err)
	}

	resp, err := http.Post("https://exp.host/--/api/v2/push/send", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push notification service returned status %d", resp.StatusCode)
	}
	return nil
}
