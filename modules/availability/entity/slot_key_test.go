package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlotKey(t *testing.T, date time.Time, hour int) SlotKey {
	t.Helper()
	key, err := NewSlotKey(date, hour)
	require.NoError(t, err)
	return key
}

func TestNewSlotKey_RejectsOutOfRangeHours(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, hour := range []int{-1, 24, 100} {
		_, err := NewSlotKey(date, hour)
		assert.Error(t, err, "hour %d", hour)
	}

	_, err := NewSlotKey(date, 0)
	assert.NoError(t, err)
	_, err = NewSlotKey(date, 23)
	assert.NoError(t, err)
}

func TestNewSlotKey_NormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	local := time.Date(2026, 3, 15, 18, 30, 0, 0, loc)

	// 18:30 UTC+7 is 11:30 UTC on the same calendar date
	key := mustSlotKey(t, local, 9)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), key.Date)
	assert.Equal(t, time.UTC, key.Date.Location())
}

func TestSlotKeyFromTime_UsesUTCHour(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	local := time.Date(2026, 3, 15, 22, 10, 0, 0, loc) // 03:10 UTC next day

	key := SlotKeyFromTime(local)
	assert.Equal(t, "2026-03-16-3", key.String())
}

func TestSlotKey_StringIsUnpaddedHour(t *testing.T) {
	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-05-0", mustSlotKey(t, date, 0).String())
	assert.Equal(t, "2026-03-05-9", mustSlotKey(t, date, 9).String())
	assert.Equal(t, "2026-03-05-23", mustSlotKey(t, date, 23).String())
}

func TestParseSlotKey_RoundTrips(t *testing.T) {
	for _, s := range []string{"2026-01-01-0", "2026-12-31-23", "2026-03-05-9"} {
		key, err := ParseSlotKey(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, key.String())
	}
}

func TestParseSlotKey_RejectsMalformedInput(t *testing.T) {
	for _, s := range []string{
		"",
		"2026-03-05",
		"2026-03-05-",
		"2026-03-05-24",
		"2026-03-05--1",
		"2026-13-05-9",
		"not-a-key",
	} {
		_, err := ParseSlotKey(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestSlotKey_CompareOrdersByDateThenHour(t *testing.T) {
	d1 := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	a := mustSlotKey(t, d1, 23)
	b := mustSlotKey(t, d2, 0)
	c := mustSlotKey(t, d2, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.Equal(t, 0, b.Compare(b))
	assert.Equal(t, 1, c.Compare(a))
}

func TestSlotKey_ActsAsJSONMapKey(t *testing.T) {
	d := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	slots := map[SlotKey]bool{
		mustSlotKey(t, d, 9):  true,
		mustSlotKey(t, d, 14): false,
	}

	raw, err := json.Marshal(slots)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2026-03-05-9": true, "2026-03-05-14": false}`, string(raw))

	var decoded map[SlotKey]bool
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, slots, decoded)
}
