package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted entry-window durations: a number followed by a single unit letter.
var durationRegex = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

var durationUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseDuration converts strings like "30s", "10m", "1h", "2d" into a
// duration. Malformed input returns ok=false; it is a user-input problem,
// never an error.
func ParseDuration(input string) (time.Duration, bool) {
	match := durationRegex.FindStringSubmatch(input)
	if match == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		// Only overflow can get here given the regexp.
		return 0, false
	}
	return time.Duration(n) * durationUnits[match[2]], true
}

// FormatDuration renders a duration the way the review message shows it,
// e.g. "1 day 2 hours 30 minutes".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60

	var parts []string
	add := func(n int, unit string) {
		if n == 0 {
			return
		}
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", unit))
			return
		}
		parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
	}
	add(days, "day")
	add(hours, "hour")
	add(minutes, "minute")
	add(seconds, "second")
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}

// CompactDuration renders a duration in the parser's own input form when it
// maps to a single unit ("90s" rather than "1 minute 30 seconds"), used to
// prefill edit forms.
func CompactDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}

// FormatEndTime renders an absolute time for message footers as
// "Today at 3:04 PM", "Tomorrow at 3:04 PM" or "Jan 2, 3:04 PM".
func FormatEndTime(t, now time.Time) string {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	tomorrow := now.AddDate(0, 0, 1)
	my, mm, md := tomorrow.Date()

	switch {
	case ty == ny && tm == nm && td == nd:
		return "Today at " + t.Format("3:04 PM")
	case ty == my && tm == mm && td == md:
		return "Tomorrow at " + t.Format("3:04 PM")
	default:
		return t.Format("Jan 2, 3:04 PM")
	}
}
