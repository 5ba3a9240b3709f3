package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseDateLayouts(t *testing.T) {
    want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
    cases := []string{
        "2024-03-05",
        " 2024/03/05 ",
        "2024-03-05T17:45:00",
        "2024-03-05 08:00:00",
        "2024-03-05T23:30:00+05:30",
        "03/05/2024",
        "05-Mar-2024",
        "\"2024-03-05\"",
    }
    for _, c := range cases {
        got, ok := ParseDate(c)
        if !ok {
            t.Fatalf("%q: expected ok", c)
        }
        if !got.Equal(want) {
            t.Fatalf("%q: got %v want %v", c, got, want)
        }
    }
}

func TestParseDateMonthOnly(t *testing.T) {
    got, ok := ParseDate("2024-02")
    if !ok {
        t.Fatalf("expected ok")
    }
    if FormatDate(got) != "2024-02-01" {
        t.Fatalf("unexpected date %s", FormatDate(got))
    }
}

func TestParseDateRejects(t *testing.T) {
    for _, c := range []string{"", "not a date", "2024-13-40", "yesterday"} {
        if _, ok := ParseDate(c); ok {
            t.Fatalf("%q: expected failure", c)
        }
    }
}
