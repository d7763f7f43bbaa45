package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func expiryIn(days int) *time.Time {
	t := testNow.AddDate(0, 0, days)
	return &t
}

func TestClassifyNoExpiryDate(t *testing.T) {
	c := Classify(nil, DefaultGracePeriodDays, testNow)

	assert.Equal(t, StatusValid, c.Status)
	assert.False(t, c.BlockedFromAssignments)
	assert.False(t, c.InGracePeriod)
	assert.Nil(t, c.NextNotificationAt)
}

func TestClassifyRanges(t *testing.T) {
	tests := []struct {
		name        string
		days        int
		grace       int
		wantStatus  Status
		wantGrace   bool
		wantBlocked bool
	}{
		{"far future", 365, 7, StatusValid, false, false},
		{"just outside warning window", 31, 7, StatusValid, false, false},
		{"at warning window edge", 30, 7, StatusExpiringSoon, false, false},
		{"mid window", 15, 7, StatusExpiringSoon, false, false},
		{"last day before expiry", 1, 7, StatusExpiringSoon, false, false},
		{"expires today", 0, 7, StatusExpired, true, false},
		{"inside grace", -3, 7, StatusExpired, true, false},
		{"last grace day", -7, 7, StatusExpired, true, false},
		{"past grace", -8, 7, StatusCriticallyExpired, false, true},
		{"long expired", -90, 7, StatusCriticallyExpired, false, true},
		{"zero grace expired today", 0, 0, StatusExpired, true, false},
		{"zero grace one day over", -1, 0, StatusCriticallyExpired, false, true},
		{"wide grace still tolerated", -29, 30, StatusExpired, true, false},
		{"negative grace clamped", -1, -5, StatusCriticallyExpired, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(expiryIn(tt.days), tt.grace, testNow)
			assert.Equal(t, tt.wantStatus, c.Status)
			assert.Equal(t, tt.days, c.DaysUntilExpiry)
			assert.Equal(t, tt.wantGrace, c.InGracePeriod)
			assert.Equal(t, tt.wantBlocked, c.BlockedFromAssignments)
		})
	}
}

func TestClassifyRangeProperty(t *testing.T) {
	// Sweep every (days, grace) combination in a realistic band and assert
	// the stated range rules hold everywhere, not just at the edges.
	for grace := 0; grace <= 30; grace += 3 {
		for days := -60; days <= 60; days++ {
			c := Classify(expiryIn(days), grace, testNow)
			switch {
			case days > 30:
				assert.Equal(t, StatusValid, c.Status, "days=%d grace=%d", days, grace)
			case days > 0:
				assert.Equal(t, StatusExpiringSoon, c.Status, "days=%d grace=%d", days, grace)
			case days >= -grace:
				assert.Equal(t, StatusExpired, c.Status, "days=%d grace=%d", days, grace)
				assert.True(t, c.InGracePeriod, "days=%d grace=%d", days, grace)
				assert.False(t, c.BlockedFromAssignments, "days=%d grace=%d", days, grace)
			default:
				assert.Equal(t, StatusCriticallyExpired, c.Status, "days=%d grace=%d", days, grace)
				assert.True(t, c.BlockedFromAssignments, "days=%d grace=%d", days, grace)
			}
		}
	}
}

func TestClassifyIdempotentWithinDay(t *testing.T) {
	expiry := expiryIn(12)
	first := Classify(expiry, 7, testNow)

	// Later the same day, including just before midnight.
	for _, clock := range []time.Duration{time.Hour, 13 * time.Hour, 13*time.Hour + 29*time.Minute} {
		again := Classify(expiry, 7, testNow.Add(clock))
		assert.Equal(t, first, again)
	}
}

func TestClassifyNextNotification(t *testing.T) {
	t.Run("valid documents notify when window opens", func(t *testing.T) {
		c := Classify(expiryIn(100), 7, testNow)
		require.NotNil(t, c.NextNotificationAt)
		want := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC) // expiry - 30d
		assert.Equal(t, want, *c.NextNotificationAt)
	})

	t.Run("expiring soon targets the next mark at or below days left", func(t *testing.T) {
		tests := []struct {
			days     int
			wantMark int
		}{
			{30, 30},
			{29, 15},
			{16, 15},
			{15, 15},
			{14, 7},
			{8, 7},
			{7, 7},
			{6, 0},
			{1, 0},
		}
		for _, tt := range tests {
			c := Classify(expiryIn(tt.days), 7, testNow)
			require.NotNil(t, c.NextNotificationAt, "days=%d", tt.days)
			want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, tt.days-tt.wantMark)
			assert.Equal(t, want, *c.NextNotificationAt, "days=%d", tt.days)
		}
	})

	t.Run("expired documents notify daily", func(t *testing.T) {
		tomorrow := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

		c := Classify(expiryIn(-2), 7, testNow)
		require.NotNil(t, c.NextNotificationAt)
		assert.Equal(t, tomorrow, *c.NextNotificationAt)

		c = Classify(expiryIn(-30), 7, testNow)
		require.NotNil(t, c.NextNotificationAt)
		assert.Equal(t, tomorrow, *c.NextNotificationAt)
	})
}
