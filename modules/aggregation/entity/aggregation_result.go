package entity

import (
	availability "meetsync/modules/availability/entity"
)

// RankedSlot is one candidate meeting time with its attendance breakdown
type RankedSlot struct {
	SlotKey            availability.SlotKey `json:"slotKey"`
	AvailableCount     int                  `json:"availableCount"`
	AvailableUserIDs   []string             `json:"availableUserIds"`
	ConflictingUserIDs []string             `json:"conflictingUserIds"`
	Score              float64              `json:"score"`
}

// AggregationResult is a derived view over a scope/period's records. It is
// never persisted as source of truth; it is always recomputable.
type AggregationResult struct {
	ScopeID           string                       `json:"scopeId"`
	Period            string                       `json:"period"`
	PerSlotCount      map[availability.SlotKey]int `json:"perSlotCount"`
	RankedSlots       []RankedSlot                 `json:"rankedSlots"`
	TotalParticipants int                          `json:"totalParticipants"`
	RespondedCount    int                          `json:"respondedCount"`
}
