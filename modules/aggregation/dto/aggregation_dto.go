package dto

import (
	"meetsync/modules/aggregation/entity"
)

// OptimalSlotsResponse carries the ranked slots plus a staleness indicator
type OptimalSlotsResponse struct {
	Result    *entity.AggregationResult `json:"result"`
	FromCache bool                      `json:"from_cache"`
}
