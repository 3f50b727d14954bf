package webhook

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"referral-outreach-server/dispatch"
)

// The gateway has no concept of retrying a reply, so every callback gets an
// empty TwiML acknowledgment no matter what happened internally.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

type Handler struct {
	Dispatcher *dispatch.Dispatcher
}

// InboundSMS receives Twilio's form-encoded webhook for an incoming text.
func (h *Handler) InboundSMS(c *gin.Context) {
	in := dispatch.InboundMessage{
		From:        c.PostForm("From"),
		To:          c.PostForm("To"),
		Body:        c.PostForm("Body"),
		ProviderSID: c.PostForm("MessageSid"),
	}

	if err := h.Dispatcher.Handle(c.Request.Context(), in); err != nil {
		log.Printf("webhook: inbound handling failed: %v", err)
	}

	c.Data(http.StatusOK, "text/xml", []byte(emptyTwiML))
}

func RegisterWebhookRoutes(r *gin.Engine, d *dispatch.Dispatcher) {
	h := &Handler{Dispatcher: d}
	r.POST("/webhook/sms", h.InboundSMS)
}
