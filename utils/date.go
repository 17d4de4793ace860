package utils

import "time"

// ParseDateOnly parses a 2006-01-02 string.
func ParseDateOnly(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
