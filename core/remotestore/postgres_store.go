package remotestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"meetsync/core/database"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// changeEvent is the pub/sub envelope. EventID lets subscribers spot
// redeliveries after a reconnect.
type changeEvent struct {
	EventID  string        `json:"eventId"`
	Document sync.Document `json:"document"`
}

// PostgresStore is the authoritative document store. Documents live in a
// single jsonb table; updated_at is stamped server-side on every write and is
// the last-write-wins authority. Change notifications fan out over redis
// pub/sub, one channel per collection.
type PostgresStore struct {
	db    database.IDatabase
	redis *redis.Client
}

func NewPostgresStore(db database.IDatabase, redisClient *redis.Client) *PostgresStore {
	return &PostgresStore{
		db:    db,
		redis: redisClient,
	}
}

type documentRow struct {
	Collection string    `db:"collection"`
	DocID      string    `db:"doc_id"`
	Data       []byte    `db:"data"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r documentRow) toDocument() sync.Document {
	return sync.Document{
		Collection: r.Collection,
		ID:         r.DocID,
		Data:       r.Data,
		UpdatedAt:  r.UpdatedAt,
	}
}

func channelFor(collection string) string {
	return "docs." + collection
}

func (s *PostgresStore) GetDoc(ctx context.Context, collection, id string) (*sync.Document, error) {
	query := `
		SELECT collection, doc_id, data, updated_at
		FROM documents WHERE collection = $1 AND doc_id = $2
	`

	var row documentRow
	err := s.db.GetContext(ctx, &row, query, collection, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("PostgresStore:GetDoc", err)
		return nil, errors.NewNetworkError("remote read failed", err)
	}

	doc := row.toDocument()
	return &doc, nil
}

func (s *PostgresStore) SetDoc(ctx context.Context, collection, id string, data []byte) (*sync.Document, error) {
	query := `
		INSERT INTO documents (collection, doc_id, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, doc_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		RETURNING collection, doc_id, data, updated_at
	`

	var row documentRow
	err := s.db.GetContext(ctx, &row, query, collection, id, data)
	if err != nil {
		logger.Error("PostgresStore:SetDoc", err)
		return nil, errors.NewNetworkError("remote write failed", err)
	}

	doc := row.toDocument()
	s.publish(ctx, &doc)
	return &doc, nil
}

func (s *PostgresStore) UpdateDoc(ctx context.Context, collection, id string, partial map[string]any) (*sync.Document, error) {
	patch, err := json.Marshal(partial)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid partial update", err)
	}

	query := `
		UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND doc_id = $2
		RETURNING collection, doc_id, data, updated_at
	`

	var row documentRow
	err = s.db.GetContext(ctx, &row, query, collection, id, patch)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("document not found")
		}
		logger.Error("PostgresStore:UpdateDoc", err)
		return nil, errors.NewNetworkError("remote update failed", err)
	}

	doc := row.toDocument()
	s.publish(ctx, &doc)
	return &doc, nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, where []sync.WhereClause) ([]sync.Document, error) {
	query := `SELECT collection, doc_id, data, updated_at FROM documents WHERE collection = $1`
	args := []any{collection}

	for _, w := range where {
		if w.Op != sync.OpEqual {
			return nil, errors.NewAppError(errors.ErrInvalidInput,
				fmt.Sprintf("unsupported query operator %q", w.Op), nil)
		}
		args = append(args, w.Field, w.Value)
		query += fmt.Sprintf(" AND data->>$%d = $%d", len(args)-1, len(args))
	}
	query += ` ORDER BY doc_id`

	var rows []documentRow
	err := s.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		logger.Error("PostgresStore:Query", err)
		return nil, errors.NewNetworkError("remote query failed", err)
	}

	docs := make([]sync.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDocument())
	}
	return docs, nil
}

// Subscribe listens on the collection channel and, for every change touching
// the scope, delivers the full updated record set for that scope.
func (s *PostgresStore) Subscribe(ctx context.Context, collection, scopeID string, onChange func([]sync.Document)) (sync.UnsubscribeFunc, error) {
	pubsub := s.redis.Subscribe(ctx, channelFor(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		logger.Error("PostgresStore:Subscribe", err)
		return nil, errors.NewNetworkError("subscription setup failed", err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			var event changeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("PostgresStore:Subscribe:BadPayload", "error", err.Error())
				continue
			}
			if scopeOf(event.Document) != scopeID {
				continue
			}

			docs, err := s.Query(ctx, collection, []sync.WhereClause{
				{Field: "scopeId", Op: sync.OpEqual, Value: scopeID},
			})
			if err != nil {
				logger.Warn("PostgresStore:Subscribe:QueryFailed", "scope_id", scopeID, "error", err.Error())
				continue
			}
			onChange(docs)
		}
	}()

	return func() {
		pubsub.Close()
	}, nil
}

func (s *PostgresStore) publish(ctx context.Context, doc *sync.Document) {
	payload, err := json.Marshal(changeEvent{
		EventID:  uuid.NewString(),
		Document: *doc,
	})
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, channelFor(doc.Collection), payload).Err(); err != nil {
		// the write itself succeeded; subscribers catch up on their next query
		logger.Warn("PostgresStore:Publish", "collection", doc.Collection, "error", err.Error())
	}
}

func scopeOf(doc sync.Document) string {
	var m struct {
		ScopeID string `json:"scopeId"`
	}
	if err := json.Unmarshal(doc.Data, &m); err != nil {
		return ""
	}
	return m.ScopeID
}
