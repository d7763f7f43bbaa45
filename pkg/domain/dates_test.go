package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysUntil(t *testing.T) {
	base := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same day ignores clock time", time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC), 0},
		{"tomorrow", base.AddDate(0, 0, 1), 1},
		{"thirty days out", base.AddDate(0, 0, 30), 30},
		{"yesterday is negative", base.AddDate(0, 0, -1), -1},
		{"across month boundary", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(base, tt.to))
		})
	}
}

func TestDaysUntilAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	// Spring transition 2025-03-30: the local day is 23 hours long.
	from := time.Date(2025, 3, 29, 12, 0, 0, 0, loc)
	to := time.Date(2025, 3, 31, 12, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysUntil(from, to))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.AddDate(0, 0, 1)))
}

func TestMidnight(t *testing.T) {
	tm := time.Date(2025, 6, 1, 17, 45, 12, 999, time.UTC)
	got := Midnight(tm)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)
}
