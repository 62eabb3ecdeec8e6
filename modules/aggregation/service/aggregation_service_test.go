package service

import (
	"context"
	"fmt"
	"testing"

	"meetsync/core/errors"
	"meetsync/core/sync"
	availdto "meetsync/modules/availability/dto"
	availability "meetsync/modules/availability/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAvailability serves a fixed record set
type stubAvailability struct {
	records   []availability.AvailabilityRecord
	fromCache bool
	err       *errors.AppError
}

func (s *stubAvailability) ListRecords(ctx context.Context, scopeID, period string) ([]availability.AvailabilityRecord, bool, *errors.AppError) {
	if s.err != nil {
		return nil, false, s.err
	}
	return s.records, s.fromCache, nil
}

func (s *stubAvailability) GetRecord(ctx context.Context, scopeID, ownerID, period string) (*availdto.AvailabilityResponse, *errors.AppError) {
	return nil, errors.NewNotFoundError("record not found")
}

func (s *stubAvailability) SetSlot(ctx context.Context, scopeID, ownerID, period string, req *availdto.SetSlotRequest) (*availdto.AvailabilityResponse, *errors.AppError) {
	return nil, nil
}

func (s *stubAvailability) SetRange(ctx context.Context, scopeID, ownerID, period string, req *availdto.SetRangeRequest) (*availdto.AvailabilityResponse, *errors.AppError) {
	return nil, nil
}

func (s *stubAvailability) ResetPeriod(ctx context.Context, scopeID, ownerID, period string) *errors.AppError {
	return nil
}

func (s *stubAvailability) AvailableDates(ctx context.Context, scopeID, ownerID, period string) (*availdto.AvailableDatesResponse, *errors.AppError) {
	return nil, nil
}

func (s *stubAvailability) Subscribe(ctx context.Context, scopeID string, onChange func([]availability.AvailabilityRecord)) (sync.UnsubscribeFunc, *errors.AppError) {
	return func() {}, nil
}

type fixedCounter int

func (c fixedCounter) CountParticipants(ctx context.Context, scopeID string) (int, error) {
	return int(c), nil
}

type failingCounter struct{}

func (failingCounter) CountParticipants(ctx context.Context, scopeID string) (int, error) {
	return 0, fmt.Errorf("team unavailable")
}

func TestGetOptimalSlots_RanksAndLimits(t *testing.T) {
	nine := slotKey(t, 10, 9)

	stub := &stubAvailability{
		records: []availability.AvailabilityRecord{
			recordWith(t, "alice", map[availability.SlotKey]bool{nine: true}),
			recordWith(t, "bob", map[availability.SlotKey]bool{nine: true}),
		},
	}
	svc := NewAggregationService(stub, fixedCounter(5))

	resp, appErr := svc.GetOptimalSlots(context.Background(), "team-a", "2026-03", 3)
	require.Nil(t, appErr)

	assert.Len(t, resp.Result.RankedSlots, 3, "month universe truncated to the limit")
	assert.Equal(t, nine, resp.Result.RankedSlots[0].SlotKey)
	assert.Equal(t, 2, resp.Result.RankedSlots[0].AvailableCount)
	assert.Equal(t, 5, resp.Result.TotalParticipants)
	assert.Equal(t, 2, resp.Result.RespondedCount)
	assert.False(t, resp.FromCache)
}

func TestGetOptimalSlots_DefaultLimit(t *testing.T) {
	svc := NewAggregationService(&stubAvailability{}, nil)

	resp, appErr := svc.GetOptimalSlots(context.Background(), "team-a", "2026-03", 0)
	require.Nil(t, appErr)
	assert.Len(t, resp.Result.RankedSlots, defaultSlotLimit)
}

func TestGetOptimalSlots_ValidatesInput(t *testing.T) {
	svc := NewAggregationService(&stubAvailability{}, nil)
	ctx := context.Background()

	_, appErr := svc.GetOptimalSlots(ctx, "", "2026-03", 5)
	require.NotNil(t, appErr)
	assert.True(t, errors.IsValidation(appErr))

	_, appErr = svc.GetOptimalSlots(ctx, "team-a", "", 5)
	require.NotNil(t, appErr)
	assert.True(t, errors.IsValidation(appErr))
}

func TestGetOptimalSlots_CachedRecordsFlagPropagates(t *testing.T) {
	nine := slotKey(t, 10, 9)
	stub := &stubAvailability{
		records: []availability.AvailabilityRecord{
			recordWith(t, "alice", map[availability.SlotKey]bool{nine: true}),
		},
		fromCache: true,
	}
	svc := NewAggregationService(stub, nil)

	resp, appErr := svc.GetOptimalSlots(context.Background(), "team-a", "2026-03", 5)
	require.Nil(t, appErr)
	assert.True(t, resp.FromCache)
}

func TestGetOptimalSlots_CounterFailureFallsBackToRespondents(t *testing.T) {
	nine := slotKey(t, 10, 9)
	stub := &stubAvailability{
		records: []availability.AvailabilityRecord{
			recordWith(t, "alice", map[availability.SlotKey]bool{nine: true}),
			recordWith(t, "bob", map[availability.SlotKey]bool{nine: false}),
		},
	}
	svc := NewAggregationService(stub, failingCounter{})

	resp, appErr := svc.GetOptimalSlots(context.Background(), "team-a", "2026-03", 5)
	require.Nil(t, appErr)
	assert.Equal(t, 2, resp.Result.TotalParticipants, "floored at responded count")
}

func TestGetOptimalSlots_ListFailurePropagates(t *testing.T) {
	stub := &stubAvailability{err: errors.NewNetworkError("both stores failed", nil)}
	svc := NewAggregationService(stub, nil)

	_, appErr := svc.GetOptimalSlots(context.Background(), "team-a", "2026-03", 5)
	require.NotNil(t, appErr)
	assert.True(t, errors.IsNetwork(appErr))
}
