package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"meetsync/core/constants"
	"meetsync/core/logger"
	"meetsync/core/sync"
	"meetsync/modules/aggregation/service"
	availability "meetsync/modules/availability/entity"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TypeAggregationRefresh recomputes a scope/period ranking after a write
const TypeAggregationRefresh = "aggregation:refresh"

// ChannelFor is the redis channel carrying published rankings for a scope
func ChannelFor(scopeID string) string {
	return "aggregation." + scopeID
}

// RefreshPayload identifies the record set to recompute
type RefreshPayload struct {
	ScopeID string `json:"scope_id"`
	Period  string `json:"period"`
}

// NewRefreshTask builds the asynq task for a scope/period refresh
func NewRefreshTask(scopeID, period string) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshPayload{ScopeID: scopeID, Period: period})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAggregationRefresh, payload), nil
}

// Enqueuer schedules refresh tasks. Implements the availability service's
// RefreshEnqueuer contract.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueRefresh(ctx context.Context, scopeID, period string) error {
	task, err := NewRefreshTask(scopeID, period)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		return err
	}
	logger.Debug("Aggregation refresh enqueued", "task_id", info.ID, "scope_id", scopeID, "period", period)
	return nil
}

// Handler processes refresh tasks server-side: it loads the scope's records
// from the authoritative store, recomputes the ranking, and publishes it on
// the scope's aggregation channel.
type Handler struct {
	remote sync.RemoteStore
	redis  *redis.Client
	engine *service.Engine
}

func NewHandler(remote sync.RemoteStore, redisClient *redis.Client) *Handler {
	return &Handler{
		remote: remote,
		redis:  redisClient,
		engine: service.NewEngine(),
	}
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload RefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("malformed refresh payload: %w: %s", asynq.SkipRetry, err)
	}

	docs, err := h.remote.Query(ctx, constants.CollectionAvailability, []sync.WhereClause{
		{Field: "scopeId", Op: sync.OpEqual, Value: payload.ScopeID},
		{Field: "period", Op: sync.OpEqual, Value: payload.Period},
	})
	if err != nil {
		return err
	}

	records := make([]availability.AvailabilityRecord, 0, len(docs))
	for _, doc := range docs {
		record, err := availability.FromJSON(doc.Data)
		if err != nil {
			logger.Warn("AggregationHandler:BadRecord", "doc_id", doc.ID, "error", err.Error())
			continue
		}
		records = append(records, *record)
	}

	universe := service.UniverseFor(payload.Period, records)
	result := h.engine.Aggregate(records, universe, payload.ScopeID, payload.Period, h.countParticipants(ctx, payload.ScopeID))

	out, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := h.redis.Publish(ctx, ChannelFor(payload.ScopeID), out).Err(); err != nil {
		return err
	}

	logger.Info("Aggregation refreshed",
		"scope_id", payload.ScopeID,
		"period", payload.Period,
		"responded", result.RespondedCount,
		"slots", len(result.RankedSlots),
	)
	return nil
}

func (h *Handler) countParticipants(ctx context.Context, scopeID string) int {
	doc, err := h.remote.GetDoc(ctx, constants.CollectionTeams, scopeID)
	if err != nil || doc == nil {
		return 0
	}
	var team struct {
		Members []string `json:"members"`
	}
	if err := json.Unmarshal(doc.Data, &team); err != nil {
		return 0
	}
	return len(team.Members)
}
