package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var windowRegex = regexp.MustCompile(`^(\d+)\s*(h|hour|hours|d|day|days|w|week|weeks)$`)

// ParseWindow parses a look-back window
// Supported formats:
// - X hours (e.g., "36 hours", "1 hour", "12h")
// - X days (e.g., "7 days", "1 day", "3d")
// - X weeks (e.g., "2 weeks", "1w")
func ParseWindow(input string) (time.Duration, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	matches := windowRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid window %q. Use: X hours, X days, or X weeks", input)
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "h", "hour", "hours":
		if amount < 1 || amount > 8760 { // Max 1 year in hours
			return 0, fmt.Errorf("hours must be between 1 and 8760")
		}
		return time.Duration(amount) * time.Hour, nil

	case "d", "day", "days":
		if amount < 1 || amount > 365 {
			return 0, fmt.Errorf("days must be between 1 and 365")
		}
		return time.Duration(amount) * 24 * time.Hour, nil

	default:
		if amount < 1 || amount > 52 {
			return 0, fmt.Errorf("weeks must be between 1 and 52")
		}
		return time.Duration(amount) * 7 * 24 * time.Hour, nil
	}
}

// FormatAge formats how long ago t was, relative to now
func FormatAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return "in the future"
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
