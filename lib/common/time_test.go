package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseISO8601(t *testing.T) {
	s := "2018-08-25T14:12:10.090758840+09:00"
	parsed, err := ParseISO8601(s)
	require.NoError(t, err)

	require.Equal(t, 2018, parsed.Year())
	require.Equal(t, time.Month(8), parsed.Month())
	require.Equal(t, 25, parsed.Day())
	require.Equal(t, 14, parsed.Hour())
	require.Equal(t, 90758840, parsed.Nanosecond())

	_, offset := parsed.Zone()
	require.Equal(t, 9*60*60, offset)
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	clock := NewFixedClock(start)

	require.Equal(t, start, clock.Now())
	require.Equal(t, start.Add(VotingPeriod), clock.Add(VotingPeriod))
	require.Equal(t, start.Add(VotingPeriod), clock.Now())

	clock.Set(start)
	require.Equal(t, start, clock.Now())
}
