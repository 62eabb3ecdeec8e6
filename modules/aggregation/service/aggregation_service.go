package service

import (
	"context"

	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/modules/aggregation/dto"
	availservice "meetsync/modules/availability/service"
)

const defaultSlotLimit = 10

// ParticipantCounter reports how many members a scope has
type ParticipantCounter interface {
	CountParticipants(ctx context.Context, scopeID string) (int, error)
}

// AggregationService computes ranked optimal slots on demand
type AggregationService struct {
	availability availservice.AvailabilityServiceInterface
	participants ParticipantCounter
	engine       *Engine
}

// AggregationServiceInterface defines the service contract
type AggregationServiceInterface interface {
	GetOptimalSlots(ctx context.Context, scopeID, period string, limit int) (*dto.OptimalSlotsResponse, *errors.AppError)
}

// NewAggregationService creates a new aggregation service. participants may
// be nil; the respondent count is used as the floor either way.
func NewAggregationService(availability availservice.AvailabilityServiceInterface, participants ParticipantCounter) AggregationServiceInterface {
	return &AggregationService{
		availability: availability,
		participants: participants,
		engine:       NewEngine(),
	}
}

// GetOptimalSlots ranks the period's slots by attendance. Works offline via
// the availability service's cached records.
func (s *AggregationService) GetOptimalSlots(ctx context.Context, scopeID, period string, limit int) (*dto.OptimalSlotsResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if scopeID == "" {
		return nil, errors.NewValidationError("scopeId is required")
	}
	if period == "" {
		return nil, errors.NewValidationError("period is required")
	}
	if limit <= 0 {
		limit = defaultSlotLimit
	}

	records, fromCache, appErr := s.availability.ListRecords(ctx, scopeID, period)
	if appErr != nil {
		return nil, appErr
	}

	totalParticipants := 0
	if s.participants != nil {
		if n, err := s.participants.CountParticipants(ctx, scopeID); err == nil {
			totalParticipants = n
		}
	}

	universe := UniverseFor(period, records)
	result := s.engine.Aggregate(records, universe, scopeID, period, totalParticipants)

	if len(result.RankedSlots) > limit {
		result.RankedSlots = result.RankedSlots[:limit]
	}

	return &dto.OptimalSlotsResponse{
		Result:    &result,
		FromCache: fromCache,
	}, nil
}
