package lifecycle

import (
    "fmt"

    "referral-outreach-server/models"
)

// dripTemplates are the scripted follow-ups, one per drip stage. These are
// deliberately fixed scripts rendered with names only; no model call is
// involved in a drip send.
var dripTemplates = map[models.ReferralStatus]string{
    models.StatusOutreachSent: "Hi %[1]s, just floating my earlier text back up. %[2]s mentioned you might be looking around, and I'd love to help if the timing works. No pressure at all! - %[3]s",
    models.StatusDrip1:        "Hey %[1]s, %[3]s here again. Totally understand if now isn't the right time. If anything changes, I'm only a text away. %[2]s speaks highly of you, so the door is always open.",
    models.StatusDrip2:        "Hi %[1]s, last note from me so I'm not a bother. Whenever you're ready, just reply here and we'll pick it up. Thanks, and say hi to %[2]s for me! - %[3]s",
}

// DripTemplate renders the scripted follow-up for the given stage. ok is
// false when the stage has no script (terminal stages).
func DripTemplate(s models.ReferralStatus, referralName, clientName, agentName string) (string, bool) {
    tmpl, ok := dripTemplates[s]
    if !ok || tmpl == "" {
        return "", false
    }
    return fmt.Sprintf(tmpl, referralName, clientName, agentName), true
}

// AcknowledgmentMessage is the group text sent the moment a referral is
// submitted, before the delayed 1:1 opener goes out.
func AcknowledgmentMessage(referralName, clientName, agentName string) string {
    return fmt.Sprintf("Hi %s! %s passed your number along to %s. Great to meet you - expect a quick text from %s shortly.",
        referralName, clientName, agentName, agentName)
}
