package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the day-precision layout the studio API uses for session dates.
const DateLayout = "2006-01-02"

// TimeLayouts lists every timestamp shape the studio API has been seen to emit,
// tried in order.
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	DateLayout,
}

func FromUTCToTimezone(utcTime time.Time, timezone string) time.Time {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return utcTime
	}
	return utcTime.In(loc)
}

// ParseTime parses value with the first matching layout of TimeLayouts.
// Values without a zone are read as UTC.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range TimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format %q", value)
}
