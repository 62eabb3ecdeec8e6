package dto

import (
	"meetsync/modules/availability/entity"
)

// ===================== Request DTOs =====================

// SetSlotRequest toggles one slot
type SetSlotRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Hour      int    `json:"hour"`
	Available bool   `json:"available"`
}

// SetRangeRequest sets several hours of one date in a single write
type SetRangeRequest struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Hours     []int  `json:"hours"`
	Available bool   `json:"available"`
}

// ===================== Response DTOs =====================

// AvailabilityResponse carries a record plus a staleness indicator
type AvailabilityResponse struct {
	Record    *entity.AvailabilityRecord `json:"record"`
	FromCache bool                       `json:"from_cache"`
}

// AvailableDatesResponse lists the dates with at least one available slot
type AvailableDatesResponse struct {
	Dates     []string `json:"dates"`
	FromCache bool     `json:"from_cache"`
}

func ToAvailabilityResponse(record *entity.AvailabilityRecord, fromCache bool) *AvailabilityResponse {
	return &AvailabilityResponse{
		Record:    record,
		FromCache: fromCache,
	}
}
