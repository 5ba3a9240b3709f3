// Package forecast builds, resamples, fits and projects sales series.
// Every function here is a pure transform over in-memory values.
package forecast

import (
	"fmt"
	"strings"
	"time"

	"PhonePortal/internal/domain/repository"
)

// Calendar maps days onto period labels for one frequency.
//
// Daily periods are labeled by the day itself, weekly periods by the closing
// anchor day of the 7-day bucket and monthly periods by the first of the month.
type Calendar struct {
	Freq       repository.Frequency
	WeekAnchor time.Weekday
}

// NewCalendar returns a Calendar with Sunday-ending weeks.
func NewCalendar(freq repository.Frequency) Calendar {
	return Calendar{Freq: freq, WeekAnchor: time.Sunday}
}

// Label returns the label of the period that contains day t.
func (c Calendar) Label(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	switch c.Freq {
	case repository.FreqDaily:
		return day
	case repository.FreqWeekly:
		shift := (int(c.WeekAnchor) - int(day.Weekday()) + 7) % 7
		return day.AddDate(0, 0, shift)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the label of the period following label.
func (c Calendar) Next(label time.Time) time.Time {
	switch c.Freq {
	case repository.FreqDaily:
		return label.AddDate(0, 0, 1)
	case repository.FreqWeekly:
		return label.AddDate(0, 0, 7)
	default:
		return label.AddDate(0, 1, 0)
	}
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
