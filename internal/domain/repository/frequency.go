package repository

import "strings"

// Frequency is a resampling grid unit.
type Frequency string

const (
	FreqDaily   Frequency = "D"
	FreqWeekly  Frequency = "W"
	FreqMonthly Frequency = "M"
)

// IsValidFrequency returns true if f is a supported frequency.
func IsValidFrequency(f Frequency) bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqMonthly:
		return true
	default:
		return false
	}
}

// DefaultFrequency returns the default frequency.
func DefaultFrequency() Frequency { return FreqMonthly }

// NormalizeFrequency converts raw string to a valid frequency (or default).
func NormalizeFrequency(s string) Frequency {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	if IsValidFrequency(f) {
		return f
	}
	return DefaultFrequency()
}

// DefaultHorizon is the number of periods forecast when the caller gives none.
func (f Frequency) DefaultHorizon() int {
	switch f {
	case FreqDaily:
		return 30
	case FreqWeekly:
		return 8
	default:
		return 6
	}
}

// SmoothingWindow is the trailing moving-average window for the history view.
func (f Frequency) SmoothingWindow() int {
	switch f {
	case FreqDaily:
		return 7
	case FreqWeekly:
		return 4
	default:
		return 3
	}
}
