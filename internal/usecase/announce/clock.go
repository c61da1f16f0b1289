package announce

import (
	"strings"
	"time"
)

// ParseLocalTime parses an "HH:MM" time of day.
func ParseLocalTime(input string) (time.Time, error) {
	return time.Parse("15:04", strings.TrimSpace(input))
}

// Due reports whether now, seen in loc, falls in the minute given by at.
func Due(now, at time.Time, loc *time.Location) bool {
	local := now.In(loc)
	return local.Hour() == at.Hour() && local.Minute() == at.Minute()
}
