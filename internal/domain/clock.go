package domain

import (
	"fmt"
)

// ClockTime is a time of day expressed as seconds from midnight.
// The planning horizon is a single day; arithmetic past midnight wraps
// when formatting but keeps the raw offset for comparisons.
type ClockTime int

// ParseClock parses a "HH:MM:SS" string into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return ClockTime(h*3600 + m*60 + sec), nil
}

// Add returns the clock time shifted by the given number of seconds.
func (c ClockTime) Add(seconds int) ClockTime { return c + ClockTime(seconds) }

// After reports whether c is strictly later than o.
func (c ClockTime) After(o ClockTime) bool { return c > o }

// String formats the clock time as HH:MM:SS, wrapping at midnight.
func (c ClockTime) String() string {
	s := (int(c)%86400 + 86400) % 86400
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// TimeWindow is an inclusive [Start, End] time-of-day interval.
type TimeWindow struct {
	Start ClockTime
	End   ClockTime
}
