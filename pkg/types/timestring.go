package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const minutesPerDay = 24 * 60

// ErrInvalidTimeFormat is returned when a value is not a valid 24-hour HH:MM string.
var ErrInvalidTimeFormat = errors.New("invalid time string format")

var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// TimeString is a wall-clock time of day in the 24-hour "HH:MM" form.
// It carries no date and no timezone.
type TimeString string

// NewTimeString takes the hour and minute of t.
func NewTimeString(t time.Time) TimeString {
	return FromMinutes(t.Hour()*60 + t.Minute())
}

// NewTimeStringFromString parses "H:MM" or "HH:MM" and normalizes it to "HH:MM".
func NewTimeStringFromString(s string) (TimeString, error) {
	m, err := parseMinutes(s)
	if err != nil {
		return "", err
	}
	return FromMinutes(m), nil
}

// FromMinutes builds a TimeString from a minute-of-day offset, wrapping modulo 24h.
func FromMinutes(total int) TimeString {
	total %= minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}
	return TimeString(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// Validate reports whether the value is a well-formed time of day.
func (t TimeString) Validate() error {
	_, err := parseMinutes(string(t))
	return err
}

// Minutes returns the minute-of-day offset. Invalid values yield 0.
func (t TimeString) Minutes() int {
	m, _ := parseMinutes(string(t))
	return m
}

// AddMinutes adds n minutes using minute-of-day arithmetic.
// The result wraps modulo 24h: "23:30" plus 60 minutes is "00:30".
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m, err := parseMinutes(string(t))
	if err != nil {
		return "", err
	}
	return FromMinutes(m + n), nil
}

// IsBefore reports whether t is strictly earlier in the day than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter reports whether t is strictly later in the day than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Equal compares two times after normalization.
func (t TimeString) Equal(other TimeString) bool {
	return t.Minutes() == other.Minutes() && t.Validate() == nil && other.Validate() == nil
}

// IsZero reports whether the value is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// String returns the raw "HH:MM" value.
func (t TimeString) String() string {
	return string(t)
}

// Display renders the time on a 12-hour clock, e.g. "9:00 AM" or "12:30 PM".
func (t TimeString) Display() string {
	m := t.Minutes()
	h, min := m/60, m%60

	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, min, period)
}

// On places t on the calendar day of date in loc.
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	m := t.Minutes()
	return time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, loc)
}

// Scan implements sql.Scanner. Accepts text columns and TIME columns.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.set(v)
	case []byte:
		return t.set(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// UnmarshalJSON accepts a JSON string and normalizes it.
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	return t.set(s)
}

func (t *TimeString) set(s string) error {
	// Postgres TIME columns come back as "HH:MM:SS"
	if len(s) == 8 && s[5] == ':' {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func parseMinutes(s string) (int, error) {
	parts := timePattern.FindStringSubmatch(s)
	if parts == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	h, _ := strconv.Atoi(parts[1])
	m, _ := strconv.Atoi(parts[2])
	return h*60 + m, nil
}
