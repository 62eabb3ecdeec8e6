package service

import (
	"sort"
	"time"

	"meetsync/core/constants"
	"meetsync/modules/aggregation/entity"
	availability "meetsync/modules/availability/entity"
)

// Engine merges per-user availability records into ranked optimal slots. It
// is a pure function of its inputs: identical inputs always produce an
// identical ranking, which the UI and the tests depend on.
type Engine struct{}

// NewEngine creates a new aggregation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Aggregate counts, for each slot of the universe, how many records mark it
// available, and ranks slots by the fraction of respondents available.
// A respondent is any owner holding a record at all, so an all-unavailable
// reply is distinguishable from a non-response.
func (e *Engine) Aggregate(
	records []availability.AvailabilityRecord,
	universe []availability.SlotKey,
	scopeID string,
	period string,
	totalParticipants int,
) entity.AggregationResult {

	// 1. Distinct respondents, ordered for deterministic output
	respondents := make(map[string]*availability.AvailabilityRecord, len(records))
	owners := make([]string, 0, len(records))
	for i := range records {
		record := &records[i]
		if record.OwnerID == "" {
			continue
		}
		if _, seen := respondents[record.OwnerID]; !seen {
			owners = append(owners, record.OwnerID)
		}
		respondents[record.OwnerID] = record
	}
	sort.Strings(owners)

	respondedCount := len(owners)
	if totalParticipants < respondedCount {
		totalParticipants = respondedCount
	}

	// 2. Per-slot counts and user breakdowns
	perSlotCount := make(map[availability.SlotKey]int, len(universe))
	ranked := make([]entity.RankedSlot, 0, len(universe))

	for _, key := range universe {
		availableIDs := make([]string, 0, respondedCount)
		conflictingIDs := make([]string, 0, respondedCount)

		for _, owner := range owners {
			if respondents[owner].Available(key) {
				availableIDs = append(availableIDs, owner)
			} else {
				conflictingIDs = append(conflictingIDs, owner)
			}
		}

		score := 0.0
		if respondedCount > 0 {
			score = float64(len(availableIDs)) / float64(respondedCount)
		}

		perSlotCount[key] = len(availableIDs)
		ranked = append(ranked, entity.RankedSlot{
			SlotKey:            key,
			AvailableCount:     len(availableIDs),
			AvailableUserIDs:   availableIDs,
			ConflictingUserIDs: conflictingIDs,
			Score:              score,
		})
	}

	// 3. Sort by score descending; ties broken by ascending slot key
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].SlotKey.Before(ranked[j].SlotKey)
	})

	return entity.AggregationResult{
		ScopeID:           scopeID,
		Period:            period,
		PerSlotCount:      perSlotCount,
		RankedSlots:       ranked,
		TotalParticipants: totalParticipants,
		RespondedCount:    respondedCount,
	}
}

// UniverseFor builds the full slot set a period spans: every hour of every
// day for a calendar month, or the union of recorded keys for an event.
func UniverseFor(period string, records []availability.AvailabilityRecord) []availability.SlotKey {
	if availability.IsMonthPeriod(period) {
		return monthUniverse(period)
	}

	seen := make(map[availability.SlotKey]bool)
	for i := range records {
		for key := range records[i].Slots {
			seen[key] = true
		}
	}
	universe := make([]availability.SlotKey, 0, len(seen))
	for key := range seen {
		universe = append(universe, key)
	}
	sort.Slice(universe, func(i, j int) bool { return universe[i].Before(universe[j]) })
	return universe
}

func monthUniverse(period string) []availability.SlotKey {
	start, err := time.ParseInLocation("2006-01", period, time.UTC)
	if err != nil {
		return nil
	}
	end := start.AddDate(0, 1, 0)

	universe := make([]availability.SlotKey, 0, int(end.Sub(start).Hours()))
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		for hour := 0; hour < constants.HoursPerDay; hour++ {
			key, _ := availability.NewSlotKey(day, hour)
			universe = append(universe, key)
		}
	}
	return universe
}
