package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldNotifyExpiredDailyCadence(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	for _, s := range []Status{StatusExpired, StatusCriticallyExpired} {
		t.Run(string(s), func(t *testing.T) {
			// Never sent: fire.
			assert.True(t, ShouldNotify(s, -3, nil, now))

			// Already sent earlier today: suppress, even with a different clock time.
			sentToday := now.Add(-4 * time.Hour)
			assert.False(t, ShouldNotify(s, -3, &sentToday, now))

			// Sent yesterday: fire again.
			sentYesterday := now.AddDate(0, 0, -1)
			assert.True(t, ShouldNotify(s, -3, &sentYesterday, now))
		})
	}
}

func TestShouldNotifyExpiringSoonMarksOnly(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	marks := map[int]bool{
		30: true, 15: true, 7: true,
		29: false, 16: false, 14: false, 8: false, 6: false, 1: false,
	}
	for days, want := range marks {
		assert.Equal(t, want, ShouldNotify(StatusExpiringSoon, days, nil, now), "days=%d", days)
	}

	// At a mark, but already sent today: suppress.
	sentToday := now.Add(-2 * time.Hour)
	assert.False(t, ShouldNotify(StatusExpiringSoon, 15, &sentToday, now))

	// At a mark, last sent at the previous mark: fire.
	sentAtPrevMark := now.AddDate(0, 0, -15)
	assert.True(t, ShouldNotify(StatusExpiringSoon, 15, &sentAtPrevMark, now))
}

func TestShouldNotifyValidNever(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	assert.False(t, ShouldNotify(StatusValid, 200, nil, now))
	assert.False(t, ShouldNotify(StatusValid, 31, nil, now))
}
