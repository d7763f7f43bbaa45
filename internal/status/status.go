// Package status classifies document expiry dates into lifecycle states with
// grace semantics. Everything here is pure: time is always injected, so the
// same inputs on the same day produce the same classification.
package status

import (
	"time"

	dom "seacrew/pkg/domain"
)

// Status is the lifecycle state of a document relative to its expiry date.
type Status string

const (
	StatusValid             Status = "VALID"
	StatusExpiringSoon      Status = "EXPIRING_SOON"
	StatusExpired           Status = "EXPIRED"
	StatusCriticallyExpired Status = "CRITICALLY_EXPIRED"
)

const (
	// DefaultGracePeriodDays bounds how long after expiry a document is
	// tolerated before it blocks assignments.
	DefaultGracePeriodDays = 7

	// warningWindowDays is the fixed look-ahead for EXPIRING_SOON.
	warningWindowDays = 30
)

// notificationMarks are the days-before-expiry points at which reminder
// notifications fire. Order matters: descending, ending at expiry day.
var notificationMarks = [...]int{30, 15, 7, 0}

// Classification is the result of classifying one expiry date.
type Classification struct {
	Status                 Status
	DaysUntilExpiry        int
	InGracePeriod          bool
	BlockedFromAssignments bool
	// NextNotificationAt is the date the next reminder is due, nil when no
	// notification will ever be due (no expiry date set).
	NextNotificationAt *time.Time
}

// Classify maps an expiry date and grace period onto a lifecycle status.
// All date arithmetic runs against `now` normalized to midnight. A nil expiry
// means the document never expires: always VALID, never blocking, never
// notified. Negative grace periods are clamped to zero.
func Classify(expiry *time.Time, gracePeriodDays int, now time.Time) Classification {
	if expiry == nil {
		return Classification{Status: StatusValid}
	}
	if gracePeriodDays < 0 {
		gracePeriodDays = 0
	}

	days := dom.DaysUntil(now, *expiry)
	today := dom.Midnight(now)

	switch {
	case days > warningWindowDays:
		next := dom.Midnight(*expiry).AddDate(0, 0, -warningWindowDays)
		return Classification{
			Status:             StatusValid,
			DaysUntilExpiry:    days,
			NextNotificationAt: &next,
		}

	case days > 0:
		next := nextMarkDate(*expiry, days)
		return Classification{
			Status:             StatusExpiringSoon,
			DaysUntilExpiry:    days,
			NextNotificationAt: &next,
		}

	case days >= -gracePeriodDays:
		tomorrow := today.AddDate(0, 0, 1)
		return Classification{
			Status:             StatusExpired,
			DaysUntilExpiry:    days,
			InGracePeriod:      true,
			NextNotificationAt: &tomorrow,
		}

	default:
		tomorrow := today.AddDate(0, 0, 1)
		return Classification{
			Status:                 StatusCriticallyExpired,
			DaysUntilExpiry:        days,
			BlockedFromAssignments: true,
			NextNotificationAt:     &tomorrow,
		}
	}
}

// nextMarkDate returns the date of the next notification mark that has not
// passed yet: the largest mark at or below the current days-until-expiry.
func nextMarkDate(expiry time.Time, days int) time.Time {
	for _, mark := range notificationMarks {
		if mark <= days {
			return dom.Midnight(expiry).AddDate(0, 0, -mark)
		}
	}
	return dom.Midnight(expiry)
}
