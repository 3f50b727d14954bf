package lifecycle

import (
    "time"

    "gorm.io/gorm"

    "referral-outreach-server/models"
)

// Status groups used by the dispatcher, the sweeps, and the operator APIs.
var (
    // PreResponseStatuses are the statuses a referral can hold before the
    // contact has ever written back. An inbound message moves any of these
    // to active.
    PreResponseStatuses = []models.ReferralStatus{
        models.StatusPending,
        models.StatusOutreachSent,
        models.StatusDrip1,
        models.StatusDrip2,
    }

    // DripEligibleStatuses are the statuses the drip sweep will touch.
    DripEligibleStatuses = []models.ReferralStatus{
        models.StatusOutreachSent,
        models.StatusDrip1,
        models.StatusDrip2,
    }

    // OpenStatuses are the non-terminal statuses. Booking and closing are
    // only legal from one of these.
    OpenStatuses = []models.ReferralStatus{
        models.StatusPending,
        models.StatusOutreachSent,
        models.StatusActive,
        models.StatusDrip1,
        models.StatusDrip2,
        models.StatusBookingSent,
    }
)

// transitions is the full table of legal status moves. Anything not listed
// here is rejected, which is what makes backward moves (active back into a
// drip stage, terminal back to anything) impossible.
var transitions = map[models.ReferralStatus][]models.ReferralStatus{
    models.StatusPending:      {models.StatusOutreachSent, models.StatusActive, models.StatusBooked, models.StatusClosed},
    models.StatusOutreachSent: {models.StatusDrip1, models.StatusActive, models.StatusBooked, models.StatusClosed},
    models.StatusDrip1:        {models.StatusDrip2, models.StatusActive, models.StatusBooked, models.StatusClosed},
    models.StatusDrip2:        {models.StatusDripComplete, models.StatusActive, models.StatusBooked, models.StatusClosed},
    models.StatusActive:       {models.StatusBookingSent, models.StatusBooked, models.StatusClosed},
    models.StatusBookingSent:  {models.StatusBooked, models.StatusClosed},
    models.StatusDripComplete: {},
    models.StatusBooked:       {},
    models.StatusClosed:       {},
}

// Allowed reports whether moving a referral from one status to another is
// legal under the transition table.
func Allowed(from, to models.ReferralStatus) bool {
    for _, s := range transitions[from] {
        if s == to {
            return true
        }
    }
    return false
}

// Terminal reports whether a status has no outgoing transitions.
func Terminal(s models.ReferralStatus) bool {
    return len(transitions[s]) == 0
}

// DripEligible reports whether the drip sweep may touch a referral in this
// status.
func DripEligible(s models.ReferralStatus) bool {
    for _, d := range DripEligibleStatuses {
        if d == s {
            return true
        }
    }
    return false
}

// nextDripStatus maps each drip-eligible status to the stage that follows it.
var nextDripStatus = map[models.ReferralStatus]models.ReferralStatus{
    models.StatusOutreachSent: models.StatusDrip1,
    models.StatusDrip1:        models.StatusDrip2,
    models.StatusDrip2:        models.StatusDripComplete,
}

// NextDripStatus returns the stage a referral advances to when the drip for
// its current status goes out.
func NextDripStatus(s models.ReferralStatus) (models.ReferralStatus, bool) {
    next, ok := nextDripStatus[s]
    return next, ok
}

// dripDelays holds the minimum wait before each stage's follow-up may fire,
// measured from the previous automated send. Cumulatively: day 2, day 5 and
// day 8 after the opener.
var dripDelays = map[models.ReferralStatus]time.Duration{
    models.StatusOutreachSent: 48 * time.Hour,
    models.StatusDrip1:        72 * time.Hour,
    models.StatusDrip2:        72 * time.Hour,
}

// DripDelay returns the minimum elapsed time before the follow-up for the
// given status may be sent.
func DripDelay(s models.ReferralStatus) (time.Duration, bool) {
    d, ok := dripDelays[s]
    return d, ok
}

// Transition moves referral id to the given status, but only while its
// current status is one of from. The move and any extra column updates land
// in a single conditional UPDATE, so two concurrent writers racing on the
// same referral cannot both win: the loser's WHERE clause no longer matches
// and it reports false. Callers must treat false as "someone got there
// first", not as an error.
func Transition(db *gorm.DB, referralID uint, from []models.ReferralStatus, to models.ReferralStatus, extra map[string]interface{}) (bool, error) {
    sources := make([]models.ReferralStatus, 0, len(from))
    for _, s := range from {
        if Allowed(s, to) {
            sources = append(sources, s)
        }
    }
    if len(sources) == 0 {
        return false, nil
    }

    updates := map[string]interface{}{"status": to}
    for k, v := range extra {
        updates[k] = v
    }

    res := db.Model(&models.Referral{}).
        Where("id = ? AND status IN ?", referralID, sources).
        Updates(updates)
    if res.Error != nil {
        return false, res.Error
    }
    return res.RowsAffected == 1, nil
}
