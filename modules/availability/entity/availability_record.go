package entity

import (
	"encoding/json"
	"regexp"
	"sort"
	"time"

	"meetsync/core/errors"
)

var monthPeriodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsMonthPeriod reports whether the period identifies a calendar month
func IsMonthPeriod(period string) bool {
	return monthPeriodPattern.MatchString(period)
}

// AvailabilityRecord is the canonical per-user, per-scope slot map. At most
// one record exists per owner per period per scope. The slot map is sparse:
// an absent key means unavailable; explicit false entries are accepted.
type AvailabilityRecord struct {
	RecordID  string           `json:"recordId"`
	ScopeID   string           `json:"scopeId"`
	OwnerID   string           `json:"ownerId"`
	Period    string           `json:"period"`
	Slots     map[SlotKey]bool `json:"slots"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// RecordID is deterministic from its identity fields
func RecordID(scopeID, ownerID, period string) string {
	return scopeID + ":" + ownerID + ":" + period
}

func newRecord(scopeID, ownerID, period string) (*AvailabilityRecord, error) {
	if scopeID == "" {
		return nil, errors.NewValidationError("scopeId is required")
	}
	if ownerID == "" {
		return nil, errors.NewValidationError("ownerId is required")
	}
	if period == "" {
		return nil, errors.NewValidationError("period is required")
	}

	now := time.Now().UTC()
	return &AvailabilityRecord{
		RecordID:  RecordID(scopeID, ownerID, period),
		ScopeID:   scopeID,
		OwnerID:   ownerID,
		Period:    period,
		Slots:     make(map[SlotKey]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewMonthlyRecord creates a record for a calendar-month period (YYYY-MM)
func NewMonthlyRecord(scopeID, ownerID, period string) (*AvailabilityRecord, error) {
	if period != "" && !IsMonthPeriod(period) {
		return nil, errors.NewValidationError("period must match the YYYY-MM month pattern")
	}
	return newRecord(scopeID, ownerID, period)
}

// NewEventRecord creates a record for an event-scoped period
func NewEventRecord(scopeID, ownerID, period string) (*AvailabilityRecord, error) {
	return newRecord(scopeID, ownerID, period)
}

// NewRecordForPeriod picks the constructor matching the period shape
func NewRecordForPeriod(scopeID, ownerID, period string) (*AvailabilityRecord, error) {
	if IsMonthPeriod(period) {
		return NewMonthlyRecord(scopeID, ownerID, period)
	}
	return NewEventRecord(scopeID, ownerID, period)
}

// Available reports the slot state; an absent key is unavailable
func (r *AvailabilityRecord) Available(key SlotKey) bool {
	return r.Slots[key]
}

// SetSlot sets one slot and bumps UpdatedAt
func (r *AvailabilityRecord) SetSlot(key SlotKey, available bool) {
	if r.Slots == nil {
		r.Slots = make(map[SlotKey]bool)
	}
	r.Slots[key] = available
	r.touch()
}

// SetRange sets several hours of one date with a single UpdatedAt bump
func (r *AvailabilityRecord) SetRange(date time.Time, hours []int, available bool) error {
	keys := make([]SlotKey, 0, len(hours))
	for _, hour := range hours {
		key, err := NewSlotKey(date, hour)
		if err != nil {
			return err
		}
		keys = append(keys, key)
	}

	if r.Slots == nil {
		r.Slots = make(map[SlotKey]bool)
	}
	for _, key := range keys {
		r.Slots[key] = available
	}
	r.touch()
	return nil
}

// Clear removes all slots. Records are never hard-deleted, only cleared.
func (r *AvailabilityRecord) Clear() {
	r.Slots = make(map[SlotKey]bool)
	r.touch()
}

// AvailableDates returns the sorted distinct dates having at least one
// available slot.
func (r *AvailabilityRecord) AvailableDates() []time.Time {
	seen := make(map[time.Time]bool)
	for key, available := range r.Slots {
		if available {
			seen[key.Date] = true
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func (r *AvailabilityRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON round-trips a serialized record, validating identity fields
func FromJSON(data []byte) (*AvailabilityRecord, error) {
	var r AvailabilityRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "malformed availability record", err)
	}
	if r.ScopeID == "" {
		return nil, errors.NewValidationError("scopeId is required")
	}
	if r.OwnerID == "" {
		return nil, errors.NewValidationError("ownerId is required")
	}
	if r.Period == "" {
		return nil, errors.NewValidationError("period is required")
	}
	if r.RecordID == "" {
		r.RecordID = RecordID(r.ScopeID, r.OwnerID, r.Period)
	}
	if r.Slots == nil {
		r.Slots = make(map[SlotKey]bool)
	}
	return &r, nil
}

// touch keeps UpdatedAt monotonically non-decreasing
func (r *AvailabilityRecord) touch() {
	now := time.Now().UTC()
	if now.After(r.UpdatedAt) {
		r.UpdatedAt = now
	}
}
