package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/tranquil/internal/models"
)

// ParsedSample represents a sample parsed from a command line
type ParsedSample struct {
	Kind      models.Kind
	Value     float64
	StartDate *time.Time // nil means now
	Source    string
	Errors    []string
}

var (
	sourceRegex = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)
	atRegex     = regexp.MustCompile(`\bat\s+(?:(\d{1,2}/\d{1,2}/\d{4})\s+)?(\d{1,2}):(\d{2})\b`)
	agoRegex    = regexp.MustCompile(`\b(\d+)\s*(m|min|mins|minutes|h|hour|hours)\s+ago\b`)
	valueRegex  = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ParseSampleLine extracts a sample from natural syntax
// Syntax: "hr 63.4 at 14:05 #chest-strap", "hrv 41 20m ago", "72 at 15/12/2025 08:30"
// A bare value is a heart rate. now anchors "at" and "ago".
func ParseSampleLine(input string, now time.Time) ParsedSample {
	result := ParsedSample{Errors: []string{}}

	// Extract source (#source)
	if m := sourceRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Source = m[1]
		input = sourceRegex.ReplaceAllString(input, "")
	}

	// Extract time (at HH:MM, at dd/mm/yyyy HH:MM)
	if m := atRegex.FindStringSubmatch(input); len(m) == 4 {
		start, err := parseClock(m[1], m[2], m[3], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid time '"+strings.TrimSpace(m[0])+"': "+err.Error())
		} else {
			result.StartDate = &start
		}
		input = atRegex.ReplaceAllString(input, "")
	} else if m := agoRegex.FindStringSubmatch(input); len(m) == 3 {
		amount, _ := strconv.Atoi(m[1])
		unit := time.Minute
		if strings.HasPrefix(m[2], "h") {
			unit = time.Hour
		}
		start := now.Add(-time.Duration(amount) * unit)
		result.StartDate = &start
		input = agoRegex.ReplaceAllString(input, "")
	}

	fields := strings.Fields(input)
	if len(fields) > 0 && IsKind(fields[0]) {
		result.Kind, _ = NormalizeKind(fields[0])
		fields = fields[1:]
	} else {
		result.Kind = models.KindHeartRate
	}

	switch {
	case len(fields) == 0:
		result.Errors = append(result.Errors, "Missing value")
	case len(fields) > 1:
		result.Errors = append(result.Errors, "Unexpected input '"+strings.Join(fields[1:], " ")+"'")
	}
	if len(fields) > 0 {
		if !valueRegex.MatchString(fields[0]) {
			result.Errors = append(result.Errors, "Invalid value '"+fields[0]+"'")
		} else {
			value, _ := strconv.ParseFloat(fields[0], 64)
			if err := checkRange(result.Kind, value); err != nil {
				result.Errors = append(result.Errors, err.Error())
			} else {
				result.Value = value
			}
		}
	}

	if result.StartDate != nil && result.StartDate.After(now) {
		result.Errors = append(result.Errors, "Sample time is in the future")
		result.StartDate = nil
	}

	return result
}

// parseClock builds a time from an optional dd/mm/yyyy date and a clock time.
// Without a date the clock time is today.
func parseClock(date, hour, minute string, now time.Time) (time.Time, error) {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	if h > 23 || m > 59 {
		return time.Time{}, fmt.Errorf("hour must be 0-23 and minute 0-59")
	}

	year, month, day := now.Date()
	if date != "" {
		parts := strings.Split(date, "/")
		day, _ = strconv.Atoi(parts[0])
		mon, _ := strconv.Atoi(parts[1])
		year, _ = strconv.Atoi(parts[2])
		month = time.Month(mon)
	}

	t := time.Date(year, month, day, h, m, 0, 0, now.Location())
	// Catch dates like 31/02
	if t.Day() != day || t.Month() != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return t, nil
}

func checkRange(kind models.Kind, value float64) error {
	switch kind {
	case models.KindHeartRate:
		if value < 20 || value > 250 {
			return fmt.Errorf("heart rate must be between 20 and 250 bpm")
		}
	case models.KindHeartRateVariability:
		if value <= 0 || value > 500 {
			return fmt.Errorf("variability must be between 0 and 500 ms")
		}
	}
	return nil
}
