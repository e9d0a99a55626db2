package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysLate(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		returned time.Time
		want     int
	}{
		{"early", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), 0},
		{"on due date", due, 0},
		{"later the same day", time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC), 0},
		{"one day", time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), 1},
		{"three days", time.Date(2025, 3, 13, 8, 30, 0, 0, time.UTC), 3},
		{"across month", time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DaysLate(due, tt.returned))
		})
	}
}

func TestPenalty(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	require.Equal(t, 0.0, Penalty(due, due, DefaultPenaltyPerDay))
	require.Equal(t, 5.0, Penalty(due, due.AddDate(0, 0, 1), DefaultPenaltyPerDay))
	require.Equal(t, 15.0, Penalty(due, due.AddDate(0, 0, 3), DefaultPenaltyPerDay))
	require.Equal(t, 0.0, Penalty(due, due.AddDate(0, 0, -2), DefaultPenaltyPerDay))
	require.Equal(t, 7.5, Penalty(due, due.AddDate(0, 0, 3), 2.5))
}

func TestCivilDate(t *testing.T) {
	taipei := time.FixedZone("CST", 8*60*60)
	ts := time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC)

	require.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), civilDate(ts, nil))
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), civilDate(ts, taipei))
}
