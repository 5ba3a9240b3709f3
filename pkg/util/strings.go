package util

import "strings"

// Normalize trims and lower-cases s for case-insensitive comparisons.
func Normalize(s string) string {
    return strings.ToLower(strings.TrimSpace(s))
}

// ContainsAny reports whether needle occurs in the space-joined, lower-cased
// haystack fields. An empty needle matches everything.
func ContainsAny(needle string, fields ...string) bool {
    if needle == "" {
        return true
    }
    return strings.Contains(strings.ToLower(strings.Join(fields, " ")), needle)
}
