package status

import (
	"time"

	dom "seacrew/pkg/domain"
)

// ShouldNotify decides whether a reminder is due, given the current status,
// the signed days until expiry, and when the last reminder for this document
// was sent (nil if never).
//
// Cadence contract:
//   - EXPIRED and CRITICALLY_EXPIRED remind daily, at most once per calendar day.
//   - EXPIRING_SOON reminds only exactly at the 30, 15 and 7 day marks, and
//     never more than once per mark per day.
//   - VALID never reminds; the classifier's NextNotificationAt says when to
//     check again.
func ShouldNotify(s Status, daysUntilExpiry int, lastSentAt *time.Time, now time.Time) bool {
	switch s {
	case StatusExpired, StatusCriticallyExpired:
		return lastSentAt == nil || !dom.SameDay(*lastSentAt, now)

	case StatusExpiringSoon:
		if !atReminderMark(daysUntilExpiry) {
			return false
		}
		return lastSentAt == nil || !dom.SameDay(*lastSentAt, now)

	default:
		return false
	}
}

func atReminderMark(days int) bool {
	for _, mark := range notificationMarks {
		if mark == 0 {
			continue // expiry day itself is handled by the EXPIRED cadence
		}
		if days == mark {
			return true
		}
	}
	return false
}
