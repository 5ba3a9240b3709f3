package util

import (
    "strconv"
    "strings"
    "time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
    DateLayout,
    "2006/01/02",
    "2006-01-02T15:04:05",
    "2006-01-02 15:04:05",
    time.RFC3339,
    time.RFC3339Nano,
    "01/02/2006",
    "02-Jan-2006",
    "Jan 2006",
    "2006-01",
}

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseDate parses a calendar date in any of the accepted layouts and
// truncates it to midnight UTC of the written day.
func ParseDate(s string) (time.Time, bool) {
    s = strings.TrimSpace(strings.Trim(s, "\""))
    if s == "" {
        return time.Time{}, false
    }
    for _, layout := range dateLayouts {
        if t, err := time.Parse(layout, s); err == nil {
            return TruncateDay(t), true
        }
    }
    return time.Time{}, false
}

// TruncateDay drops the time of day, keeping the calendar day as written.
func TruncateDay(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// NowISO returns the current UTC time as ISO-8601 with a trailing Z.
func NowISO(now time.Time) string {
    return now.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}
