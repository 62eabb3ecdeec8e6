package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"meetsync/core/errors"
)

const slotDateLayout = "2006-01-02"

// SlotKey identifies one discrete bookable time unit: a UTC calendar date
// plus an hour index. It is always derived from UTC, never local wall-clock
// time, so the same key means the same instant for every viewer.
type SlotKey struct {
	Date time.Time // UTC midnight
	Hour int       // 0-23
}

// NewSlotKey builds a key from a date and an hour index
func NewSlotKey(date time.Time, hour int) (SlotKey, error) {
	if hour < 0 || hour > 23 {
		return SlotKey{}, errors.NewValidationError(fmt.Sprintf("hour must be between 0 and 23, got %d", hour))
	}
	return SlotKey{Date: midnightUTC(date), Hour: hour}, nil
}

// SlotKeyFromTime derives the key covering the given instant
func SlotKeyFromTime(t time.Time) SlotKey {
	utc := t.UTC()
	return SlotKey{Date: midnightUTC(utc), Hour: utc.Hour()}
}

// ParseSlotKey parses the canonical "YYYY-MM-DD-H" form
func ParseSlotKey(s string) (SlotKey, error) {
	idx := strings.LastIndexByte(s, '-')
	if idx <= 0 || idx == len(s)-1 {
		return SlotKey{}, errors.NewValidationError(fmt.Sprintf("malformed slot key %q", s))
	}

	hour, err := strconv.Atoi(s[idx+1:])
	if err != nil || hour < 0 || hour > 23 {
		return SlotKey{}, errors.NewValidationError(fmt.Sprintf("malformed slot key %q: bad hour", s))
	}

	date, err := time.ParseInLocation(slotDateLayout, s[:idx], time.UTC)
	if err != nil {
		return SlotKey{}, errors.NewValidationError(fmt.Sprintf("malformed slot key %q: bad date", s))
	}

	return SlotKey{Date: date, Hour: hour}, nil
}

// String is the single canonical serialization: date, dash, unpadded hour
func (k SlotKey) String() string {
	return fmt.Sprintf("%s-%d", k.Date.Format(slotDateLayout), k.Hour)
}

// Compare orders keys by date then hour, the deterministic tie-break order
func (k SlotKey) Compare(other SlotKey) int {
	switch {
	case k.Date.Before(other.Date):
		return -1
	case k.Date.After(other.Date):
		return 1
	case k.Hour < other.Hour:
		return -1
	case k.Hour > other.Hour:
		return 1
	default:
		return 0
	}
}

func (k SlotKey) Before(other SlotKey) bool {
	return k.Compare(other) < 0
}

// MarshalText lets SlotKey act as a JSON map key
func (k SlotKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SlotKey) UnmarshalText(text []byte) error {
	parsed, err := ParseSlotKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func midnightUTC(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
