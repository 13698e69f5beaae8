package bookings

import (
	"fmt"
	"strings"
	"time"
)

// Operating window for custom scheduling. Canonical slots are trusted as-is;
// only customer-entered times are checked against this window.
const (
	openingMinute = 7 * 60  // 07:00
	closingMinute = 21 * 60 // 21:00
)

// Layouts accepted for customer-entered clock times.
var clockLayouts = []string{"3:04 PM", "3:04PM", "3 PM", "3PM", "15:04"}

// ParseDate parses a booking date sent by the client. The booking page sends
// a full ISO timestamp; the admin tooling sends bare dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NormalizeDate(t), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return NormalizeDate(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrInvalidInput, s)
}

// NormalizeDate strips the time component, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateCustomTime checks a free-text custom time against the operating
// window. Accepts a single time ("6:00 PM") or a range ("2:00 PM – 5:00 PM").
// Validated before the hold is created, never after.
func ValidateCustomTime(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fmt.Errorf("%w: custom time is empty", ErrInvalidInput)
	}

	parts := splitTimeRange(s)
	start, err := parseClockMinute(parts[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	end := start
	if len(parts) == 2 {
		end, err = parseClockMinute(parts[1])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if end <= start {
			return fmt.Errorf("%w: custom time must end after it starts", ErrInvalidInput)
		}
	}

	if start < openingMinute || end > closingMinute {
		return fmt.Errorf("%w: custom time must fall between 7:00 AM and 9:00 PM", ErrInvalidInput)
	}
	return nil
}

// splitTimeRange splits "start – end" style inputs on the separators the
// booking page produces.
func splitTimeRange(s string) []string {
	for _, sep := range []string{"–", "—", " - ", " to "} {
		if strings.Contains(s, sep) {
			parts := strings.SplitN(s, sep, 2)
			return []string{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}
		}
	}
	return []string{s}
}

func parseClockMinute(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time %q", s)
}
