package service

import (
	"context"
	"encoding/json"
	"fmt"
	gosync "sync"
	"testing"
	"time"

	"meetsync/core/errors"
	"meetsync/core/sync"
	"meetsync/modules/availability/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLocalStore struct {
	mu   gosync.Mutex
	data map[string]string
}

func newMemoryLocalStore() *memoryLocalStore {
	return &memoryLocalStore{data: make(map[string]string)}
}

func (s *memoryLocalStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memoryLocalStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memoryLocalStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memoryLocalStore) MultiRemove(ctx context.Context, keys []string) error {
	for _, k := range keys {
		if err := s.Remove(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryLocalStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return nil
}

type memoryRemoteStore struct {
	mu     gosync.Mutex
	docs   map[string]json.RawMessage
	netErr error
}

func newMemoryRemoteStore() *memoryRemoteStore {
	return &memoryRemoteStore{docs: make(map[string]json.RawMessage)}
}

func (s *memoryRemoteStore) GetDoc(ctx context.Context, collection, id string) (*sync.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.netErr != nil {
		return nil, s.netErr
	}
	data, ok := s.docs[collection+"/"+id]
	if !ok {
		return nil, nil
	}
	return &sync.Document{Collection: collection, ID: id, Data: data, UpdatedAt: time.Now()}, nil
}

func (s *memoryRemoteStore) SetDoc(ctx context.Context, collection, id string, data []byte) (*sync.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.netErr != nil {
		return nil, s.netErr
	}
	stored := make(json.RawMessage, len(data))
	copy(stored, data)
	s.docs[collection+"/"+id] = stored
	return &sync.Document{Collection: collection, ID: id, Data: stored, UpdatedAt: time.Now()}, nil
}

func (s *memoryRemoteStore) UpdateDoc(ctx context.Context, collection, id string, partial map[string]any) (*sync.Document, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *memoryRemoteStore) Query(ctx context.Context, collection string, where []sync.WhereClause) ([]sync.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.netErr != nil {
		return nil, s.netErr
	}
	var docs []sync.Document
	for _, data := range s.docs {
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		matched := true
		for _, w := range where {
			if v, _ := m[w.Field].(string); v != w.Value {
				matched = false
				break
			}
		}
		if matched {
			id, _ := m["recordId"].(string)
			docs = append(docs, sync.Document{ID: id, Data: data, UpdatedAt: time.Now()})
		}
	}
	return docs, nil
}

func (s *memoryRemoteStore) Subscribe(ctx context.Context, collection, scopeID string, onChange func([]sync.Document)) (sync.UnsubscribeFunc, error) {
	return func() {}, nil
}

// refreshRecorder captures refresh requests
type refreshRecorder struct {
	mu    gosync.Mutex
	calls []string
}

func (r *refreshRecorder) EnqueueRefresh(ctx context.Context, scopeID, period string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, scopeID+"/"+period)
	return nil
}

func newTestService(t *testing.T) (AvailabilityServiceInterface, *memoryRemoteStore, *refreshRecorder) {
	t.Helper()
	local := newMemoryLocalStore()
	remote := newMemoryRemoteStore()
	refresh := &refreshRecorder{}
	coordinator := sync.NewCoordinator(local, remote, sync.Options{Online: true})
	return NewAvailabilityService(coordinator, refresh), remote, refresh
}

func TestSetSlot_CreatesRecordOnFirstToggle(t *testing.T) {
	svc, remote, refresh := newTestService(t)
	ctx := context.Background()

	resp, appErr := svc.SetSlot(ctx, "team-a", "alice", "2026-03", &dto.SetSlotRequest{
		Date:      "2026-03-10",
		Hour:      9,
		Available: true,
	})

	require.Nil(t, appErr)
	assert.Equal(t, "team-a:alice:2026-03", resp.Record.RecordID)
	assert.Len(t, resp.Record.Slots, 1)

	// record reached the remote store
	assert.Contains(t, remote.docs, "availability/team-a:alice:2026-03")
	// a ranking refresh was scheduled
	assert.Equal(t, []string{"team-a/2026-03"}, refresh.calls)
}

func TestSetSlot_ValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("bad date", func(t *testing.T) {
		_, appErr := svc.SetSlot(ctx, "team-a", "alice", "2026-03", &dto.SetSlotRequest{
			Date: "10/03/2026", Hour: 9, Available: true,
		})
		require.NotNil(t, appErr)
		assert.True(t, errors.IsValidation(appErr))
	})

	t.Run("bad hour", func(t *testing.T) {
		_, appErr := svc.SetSlot(ctx, "team-a", "alice", "2026-03", &dto.SetSlotRequest{
			Date: "2026-03-10", Hour: 24, Available: true,
		})
		require.NotNil(t, appErr)
		assert.True(t, errors.IsValidation(appErr))
	})

	t.Run("bad month period", func(t *testing.T) {
		_, appErr := svc.SetSlot(ctx, "team-a", "alice", "2026-3", &dto.SetSlotRequest{
			Date: "2026-03-10", Hour: 9, Available: true,
		})
		require.Nil(t, appErr, "non-month shapes are event periods, not errors")
	})
}

func TestSetRange_SingleWrite(t *testing.T) {
	svc, _, refresh := newTestService(t)
	ctx := context.Background()

	resp, appErr := svc.SetRange(ctx, "team-a", "alice", "2026-03", &dto.SetRangeRequest{
		Date:      "2026-03-10",
		Hours:     []int{9, 10, 11},
		Available: true,
	})

	require.Nil(t, appErr)
	assert.Len(t, resp.Record.Slots, 3)
	assert.Len(t, refresh.calls, 1, "a batch is one write, one refresh")
}

func TestSetRange_RequiresHours(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, appErr := svc.SetRange(context.Background(), "team-a", "alice", "2026-03", &dto.SetRangeRequest{
		Date: "2026-03-10",
	})
	require.NotNil(t, appErr)
	assert.True(t, errors.IsValidation(appErr))
}

func TestGetRecord_NotFoundBeforeFirstToggle(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, appErr := svc.GetRecord(context.Background(), "team-a", "alice", "2026-03")
	require.NotNil(t, appErr)
	assert.True(t, errors.IsNotFound(appErr))
}

func TestGetRecord_OfflineReadsCachedCopy(t *testing.T) {
	svc, remote, _ := newTestService(t)
	ctx := context.Background()

	_, appErr := svc.SetSlot(ctx, "team-a", "alice", "2026-03", &dto.SetSlotRequest{
		Date: "2026-03-10", Hour: 9, Available: true,
	})
	require.Nil(t, appErr)

	remote.mu.Lock()
	remote.netErr = errors.NewNetworkError("connection refused", nil)
	remote.mu.Unlock()

	resp, appErr := svc.GetRecord(ctx, "team-a", "alice", "2026-03")
	require.Nil(t, appErr)
	assert.True(t, resp.FromCache)
	assert.Len(t, resp.Record.Slots, 1)
}

func TestResetPeriod_ClearsSlotsKeepsRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, appErr := svc.SetSlot(ctx, "team-a", "alice", "2026-03", &dto.SetSlotRequest{
		Date: "2026-03-10", Hour: 9, Available: true,
	})
	require.Nil(t, appErr)

	require.Nil(t, svc.ResetPeriod(ctx, "team-a", "alice", "2026-03"))

	resp, appErr := svc.GetRecord(ctx, "team-a", "alice", "2026-03")
	require.Nil(t, appErr)
	assert.Empty(t, resp.Record.Slots, "cleared, not deleted")
}

func TestAvailableDates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, day := range []string{"2026-03-20", "2026-03-05"} {
		_, appErr := svc.SetSlot(ctx, "team-a", "alice", "2026-03", &dto.SetSlotRequest{
			Date: day, Hour: 9, Available: true,
		})
		require.Nil(t, appErr)
	}

	resp, appErr := svc.AvailableDates(ctx, "team-a", "alice", "2026-03")
	require.Nil(t, appErr)
	assert.Equal(t, []string{"2026-03-05", "2026-03-20"}, resp.Dates)
}

func TestListRecords_FiltersByScopeAndPeriod(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []struct{ scope, owner, period string }{
		{"team-a", "alice", "2026-03"},
		{"team-a", "bob", "2026-03"},
		{"team-a", "alice", "2026-04"},
		{"team-b", "carol", "2026-03"},
	}
	for _, s := range seed {
		_, appErr := svc.SetSlot(ctx, s.scope, s.owner, s.period, &dto.SetSlotRequest{
			Date: "2026-03-10", Hour: 9, Available: true,
		})
		require.Nil(t, appErr)
	}

	records, fromCache, appErr := svc.ListRecords(ctx, "team-a", "2026-03")
	require.Nil(t, appErr)
	assert.False(t, fromCache)
	assert.Len(t, records, 2)
}
