package sync

import (
	"context"
	"encoding/json"
	"time"
)

// LocalStore is the device-side durable key-value surface. All values are
// JSON text. Implementations must survive process restarts.
type LocalStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	MultiRemove(ctx context.Context, keys []string) error
	Clear(ctx context.Context) error
}

// Document is a stored record plus the server-assigned write timestamp.
// UpdatedAt is authoritative for last-write-wins reconciliation.
type Document struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// OpEqual is the only comparison the document queries need
const OpEqual = "=="

// WhereClause filters a collection query on a top-level JSON field
type WhereClause struct {
	Field string
	Op    string
	Value string
}

// UnsubscribeFunc tears down a change subscription
type UnsubscribeFunc func()

// RemoteStore is the authoritative networked document store. Reachable only
// when online; every method may fail with a network error.
type RemoteStore interface {
	// GetDoc returns (nil, nil) when the document is missing.
	GetDoc(ctx context.Context, collection, id string) (*Document, error)
	SetDoc(ctx context.Context, collection, id string, data []byte) (*Document, error)
	UpdateDoc(ctx context.Context, collection, id string, partial map[string]any) (*Document, error)
	Query(ctx context.Context, collection string, where []WhereClause) ([]Document, error)
	// Subscribe delivers the full updated record set for the scope on every
	// remote change.
	Subscribe(ctx context.Context, collection, scopeID string, onChange func([]Document)) (UnsubscribeFunc, error)
}
