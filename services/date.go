package services

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidDate is returned for dates that are neither YYYY-MM-DD nor RFC 3339
var ErrInvalidDate = errors.New("invalid date format: expected YYYY-MM-DD")

// ParseDate parses a calendar date (YYYY-MM-DD) at midnight UTC, the form
// CivilDate produces
func ParseDate(dateStr string) (time.Time, error) {
	return ParseDateIn(dateStr, time.UTC)
}

// ParseDateIn parses dateStr in loc. Plain dates (HTML date inputs) land at
// midnight; full RFC 3339 timestamps keep their clock time but are moved to loc.
func ParseDateIn(dateStr string, loc *time.Location) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)

	if t, err := time.ParseInLocation("2006-01-02", dateStr, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, ErrInvalidDate
}

// LocalNow returns the current time in El Salvador
func LocalNow() time.Time {
	return time.Now().In(SalvadorLocation())
}

// Today returns the current El Salvador calendar date as a civil date
func Today() time.Time {
	return CivilDate(LocalNow())
}
