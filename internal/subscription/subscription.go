// Package subscription derives the display status of a tenant subscription
// from its date window. Evaluation is a pure function of the supplied clock
// so callers (and tests) inject "now" explicitly.
package subscription

import (
	"fmt"
	"time"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
)

// Status is the derived subscription bucket. It is never stored; it is
// recomputed from End_Date on every evaluation.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// ExpiringWindowDays is the size of the "expiring soon" bucket.
const ExpiringWindowDays = 30

// Evaluation is the result of classifying a subscription window.
type Evaluation struct {
	Status          Status
	DaysUntilExpiry int
}

// Evaluate classifies a subscription window against the supplied instant.
// DaysUntilExpiry is ceil((end-now)/24h). A subscription is expired strictly
// after end, and expiring when between 1 and 30 days remain. end == now is
// neither expired nor expiring and falls into the active bucket; this exact
// boundary matches the backend's admin UI and must not be moved.
func Evaluate(now, start, end time.Time) Evaluation {
	_ = start // informational; status depends on end only

	days := ceilDays(end.Sub(now))

	ev := Evaluation{DaysUntilExpiry: days}
	switch {
	case now.After(end):
		ev.Status = StatusExpired
	case days > 0 && days <= ExpiringWindowDays:
		ev.Status = StatusExpiring
	default:
		ev.Status = StatusActive
	}
	return ev
}

// ceilDays rounds a duration up to whole days. Negative durations round
// toward zero, matching ceil on a negative quotient.
func ceilDays(d time.Duration) int {
	const day = 24 * time.Hour
	days := d / day
	if d%day > 0 {
		days++
	}
	return int(days)
}

// DisplayText renders the localized countdown for an evaluation.
func DisplayText(ev Evaluation, locale i18n.Locale) string {
	switch ev.Status {
	case StatusExpired:
		n := ev.DaysUntilExpiry
		if n < 0 {
			n = -n
		}
		if n == 1 {
			return i18n.Message{
				EN: "Expired 1 day ago",
				AR: "منتهي منذ يوم واحد",
			}.In(locale)
		}
		return i18n.Message{
			EN: fmt.Sprintf("Expired %d days ago", n),
			AR: fmt.Sprintf("منتهي منذ %d يوم", n),
		}.In(locale)
	case StatusExpiring:
		if ev.DaysUntilExpiry == 1 {
			return i18n.Message{
				EN: "Expires in 1 day",
				AR: "ينتهي خلال يوم واحد",
			}.In(locale)
		}
		return i18n.Message{
			EN: fmt.Sprintf("Expires in %d days", ev.DaysUntilExpiry),
			AR: fmt.Sprintf("ينتهي خلال %d يوم", ev.DaysUntilExpiry),
		}.In(locale)
	default:
		if ev.DaysUntilExpiry == 1 {
			return i18n.Message{
				EN: "1 day remaining",
				AR: "متبقي يوم واحد",
			}.In(locale)
		}
		return i18n.Message{
			EN: fmt.Sprintf("%d days remaining", ev.DaysUntilExpiry),
			AR: fmt.Sprintf("متبقي %d يوم", ev.DaysUntilExpiry),
		}.In(locale)
	}
}
