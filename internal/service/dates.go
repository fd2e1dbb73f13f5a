package service

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format of the date field in the post editor.
const DateLayout = "2006-01-02"

// ParseDate turns a YYYY-MM-DD string into noon local time on that day, so the
// stored timestamp does not shift to a neighbouring date in nearby time zones.
// An empty string yields now. Surrounding whitespace is not tolerated.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now, nil
	}

	day, err := time.ParseInLocation(DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, invalid(ErrInvalidDate, "date must look like 2006-01-02")
	}

	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.Local), nil
}

// ParsePageID parses the id path segment of the admin URLs.
func ParsePageID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, ErrBadInput
	}
	return uint(id), nil
}
