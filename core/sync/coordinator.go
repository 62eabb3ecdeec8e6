package sync

import (
	"context"
	"encoding/json"
	stderrors "errors"
	gosync "sync"
	"time"

	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/utils"
)

// Options configures a Coordinator
type Options struct {
	// Timeout bounds each RemoteStore call. Defaults to constants.SyncRequestTimeout.
	Timeout time.Duration
	Backoff Backoff
	// Online is the initial connectivity assumption
	Online bool
}

// WriteRequest writes one serialized record
type WriteRequest struct {
	Collection string
	DocID      string
	// LocalKey is the cache key holding the JSON array this record lives in
	LocalKey string
	// IDField names the JSON field carrying the record id inside Data
	IDField string
	Data    []byte
}

type ReadRequest struct {
	Collection string
	DocID      string
	LocalKey   string
	IDField    string
}

type ListRequest struct {
	Collection string
	LocalKey   string
	IDField    string
	Where      []WhereClause
}

// ReadResult carries the record plus a staleness flag the caller can use to
// show a degraded-data indicator.
type ReadResult struct {
	Data      []byte
	FromCache bool
	UpdatedAt time.Time
}

type ListResult struct {
	Documents []Document
	FromCache bool
}

// Coordinator presents a single read/write API regardless of connectivity,
// keeping LocalStore and RemoteStore eventually consistent.
type Coordinator struct {
	local   LocalStore
	remote  RemoteStore
	timeout time.Duration
	backoff Backoff

	mu     gosync.Mutex
	online bool

	queue *pendingQueue

	keyMu    gosync.Mutex
	keyLocks map[string]*gosync.Mutex

	// cacheMu serializes read-modify-write cycles on local array keys, which
	// are shared by records of the same collection
	cacheMu gosync.Mutex
}

func NewCoordinator(local LocalStore, remote RemoteStore, opts Options) *Coordinator {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.SyncRequestTimeout
	}
	if opts.Backoff.MaxAttempts <= 0 {
		opts.Backoff = DefaultBackoff()
	}
	return &Coordinator{
		local:    local,
		remote:   remote,
		timeout:  opts.Timeout,
		backoff:  opts.Backoff,
		online:   opts.Online,
		queue:    newPendingQueue(),
		keyLocks: make(map[string]*gosync.Mutex),
	}
}

func (c *Coordinator) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *Coordinator) setOnline(online bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.online = online
}

// PendingCount reports the number of queued operations
func (c *Coordinator) PendingCount() int {
	return c.queue.len()
}

// SetOnlineStatus is the connectivity observer entry point. A transition to
// online drains the pending queue before new work proceeds.
func (c *Coordinator) SetOnlineStatus(ctx context.Context, online bool) {
	if !online {
		c.setOnline(false)
		return
	}
	if err := c.OnReconnect(ctx); err != nil {
		logger.Warn("SyncCoordinator:Reconnect:DrainIncomplete",
			"pending", c.queue.len(),
			"error", err.Error(),
		)
	}
}

// Write persists the record locally first, then remotely when online. A
// remote network failure flips the coordinator offline and queues a replay;
// it is not surfaced to the caller. Remote rejections (validation, conflict)
// are surfaced and never retried.
func (c *Coordinator) Write(ctx context.Context, req WriteRequest) error {
	key := req.Collection + "/" + req.DocID
	queued, err := c.writeOne(ctx, req, key)
	if err != nil || !queued {
		return err
	}
	// a drain loop may have emptied the queue between our online check and the
	// enqueue; flush now so the operation is never stranded while online
	if c.Online() {
		if derr := c.OnReconnect(ctx); derr != nil {
			logger.Warn("SyncCoordinator:Write:FlushIncomplete", "key", key, "error", derr.Error())
		}
	}
	return nil
}

// writeOne reports queued=true only when the operation was enqueued while the
// coordinator still considered itself online; the caller then kicks a drain.
func (c *Coordinator) writeOne(ctx context.Context, req WriteRequest, key string) (queued bool, _ error) {
	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// local durability is never optional
	if err := c.cacheUpsert(ctx, req.LocalKey, req.IDField, req.DocID, req.Data); err != nil {
		return false, errors.NewAppError(errors.ErrCreateFailed, "local write failed", err)
	}

	// an older pending write for this key must land first, even when online
	if !c.Online() || c.queue.hasKey(key) {
		c.enqueueWrite(req, key)
		return true, nil
	}

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.remote.SetDoc(rctx, req.Collection, req.DocID, req.Data); err != nil {
		if !isRetryable(err) {
			return false, err
		}
		logger.Warn("SyncCoordinator:Write:RemoteUnreachable", "key", key, "error", err.Error())
		c.setOnline(false)
		c.enqueueWrite(req, key)
	}
	return false, nil
}

func (c *Coordinator) enqueueWrite(req WriteRequest, key string) {
	data := make([]byte, len(req.Data))
	copy(data, req.Data)

	c.queue.enqueue(&PendingOperation{
		ID:         utils.GenerateID(),
		Key:        key,
		EnqueuedAt: time.Now(),
		run: func(ctx context.Context) error {
			_, err := c.remote.SetDoc(ctx, req.Collection, req.DocID, data)
			return err
		},
	})
}

// Read prefers the remote value and refreshes the cache with it. Offline or
// on network failure it degrades to the cached value with FromCache set; it
// never fails purely due to connectivity unless the cache misses too.
func (c *Coordinator) Read(ctx context.Context, req ReadRequest) (*ReadResult, error) {
	var remoteErr error

	if c.Online() {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		doc, err := c.remote.GetDoc(rctx, req.Collection, req.DocID)
		cancel()

		switch {
		case err == nil && doc != nil:
			if cerr := c.cacheUpsert(ctx, req.LocalKey, req.IDField, req.DocID, doc.Data); cerr != nil {
				logger.Warn("SyncCoordinator:Read:CacheRefreshFailed", "key", req.LocalKey, "error", cerr.Error())
			}
			return &ReadResult{Data: doc.Data, UpdatedAt: doc.UpdatedAt}, nil
		case err == nil:
			// missing remotely; an offline-created record may still be cached
		case isRetryable(err):
			c.setOnline(false)
			remoteErr = err
		default:
			return nil, err
		}
	}

	data, ok, err := c.cacheGet(ctx, req.LocalKey, req.IDField, req.DocID)
	if err != nil {
		if remoteErr != nil {
			// both sides failed: surface the original error
			return nil, remoteErr
		}
		return nil, errors.NewAppError(errors.ErrGetFailed, "local read failed", err)
	}
	if !ok {
		if remoteErr != nil {
			return nil, remoteErr
		}
		return nil, errors.NewNotFoundError("record not found")
	}
	return &ReadResult{Data: data, FromCache: true}, nil
}

// List queries a collection remotely, merging results into the cache, and
// degrades to the cached set filtered by the same clauses.
func (c *Coordinator) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	var remoteErr error

	if c.Online() {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		docs, err := c.remote.Query(rctx, req.Collection, req.Where)
		cancel()

		switch {
		case err == nil:
			for _, d := range docs {
				if cerr := c.cacheUpsert(ctx, req.LocalKey, req.IDField, d.ID, d.Data); cerr != nil {
					logger.Warn("SyncCoordinator:List:CacheRefreshFailed", "key", req.LocalKey, "error", cerr.Error())
				}
			}
			return &ListResult{Documents: docs}, nil
		case isRetryable(err):
			c.setOnline(false)
			remoteErr = err
		default:
			return nil, err
		}
	}

	items, err := c.cacheList(ctx, req.LocalKey, req.IDField, req.Where)
	if err != nil {
		if remoteErr != nil {
			return nil, remoteErr
		}
		return nil, errors.NewAppError(errors.ErrGetFailed, "local read failed", err)
	}
	return &ListResult{Documents: items, FromCache: true}, nil
}

// Subscribe passes through to the remote push channel. The cache is updated
// before the caller's callback runs, so it never lags behind what was
// already delivered.
func (c *Coordinator) Subscribe(ctx context.Context, collection, scopeID, localKey, idField string, onChange func([]Document)) (UnsubscribeFunc, error) {
	if !c.Online() {
		return nil, errors.NewNetworkError("cannot subscribe while offline", nil)
	}
	return c.remote.Subscribe(ctx, collection, scopeID, func(docs []Document) {
		for _, d := range docs {
			if err := c.cacheUpsert(ctx, localKey, idField, d.ID, d.Data); err != nil {
				logger.Warn("SyncCoordinator:Subscribe:CacheRefreshFailed", "key", localKey, "error", err.Error())
			}
		}
		onChange(docs)
	})
}

// OnReconnect flips online and drains the pending queue strictly in FIFO
// order, one operation at a time. Each operation stays at the queue head and
// holds its key lock while its replay is in flight, so a concurrent Write for
// the same record waits behind it instead of overtaking it. A failed
// operation stays at the front and draining stops for this cycle; callers
// retry on the next connectivity signal.
func (c *Coordinator) OnReconnect(ctx context.Context) error {
	c.setOnline(true)
	for {
		op, ok := c.queue.front()
		if !ok {
			return nil
		}
		lock := c.keyLock(op.Key)
		lock.Lock()
		if cur, still := c.queue.front(); !still || cur != op {
			// another drain replayed it while we waited for the lock
			lock.Unlock()
			continue
		}
		err := c.runPending(ctx, op)
		if err == nil {
			c.queue.popFront()
		}
		lock.Unlock()
		if err != nil {
			c.setOnline(false)
			return err
		}
		logger.Debug("SyncCoordinator:Reconnect:Replayed", "op_id", op.ID, "key", op.Key)
	}
}

func (c *Coordinator) runPending(ctx context.Context, op *PendingOperation) error {
	var err error
	for attempt := 1; attempt <= c.backoff.MaxAttempts; attempt++ {
		rctx, cancel := context.WithTimeout(ctx, c.timeout)
		err = op.run(rctx)
		cancel()
		if err == nil {
			return nil
		}
		op.Attempts++
		if attempt == c.backoff.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff.Delay(attempt)):
		}
	}
	return err
}

func (c *Coordinator) keyLock(key string) *gosync.Mutex {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	l, ok := c.keyLocks[key]
	if !ok {
		l = &gosync.Mutex{}
		c.keyLocks[key] = l
	}
	return l
}

func isRetryable(err error) bool {
	return errors.IsNetwork(err) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(err, context.Canceled)
}

// ===================== local cache helpers =====================

func (c *Coordinator) cacheUpsert(ctx context.Context, localKey, idField, id string, data []byte) error {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	items, err := c.readCacheArray(ctx, localKey)
	if err != nil {
		return err
	}

	stored := make(json.RawMessage, len(data))
	copy(stored, data)

	replaced := false
	for i, raw := range items {
		if jsonFieldValue(raw, idField) == id {
			items[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, stored)
	}
	return c.writeCacheArray(ctx, localKey, items)
}

func (c *Coordinator) cacheGet(ctx context.Context, localKey, idField, id string) ([]byte, bool, error) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	items, err := c.readCacheArray(ctx, localKey)
	if err != nil {
		return nil, false, err
	}
	for _, raw := range items {
		if jsonFieldValue(raw, idField) == id {
			return raw, true, nil
		}
	}
	return nil, false, nil
}

func (c *Coordinator) cacheList(ctx context.Context, localKey, idField string, where []WhereClause) ([]Document, error) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	items, err := c.readCacheArray(ctx, localKey)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(items))
	for _, raw := range items {
		if !matches(raw, where) {
			continue
		}
		docs = append(docs, Document{
			ID:   jsonFieldValue(raw, idField),
			Data: raw,
		})
	}
	return docs, nil
}

func (c *Coordinator) readCacheArray(ctx context.Context, localKey string) ([]json.RawMessage, error) {
	value, ok, err := c.local.Get(ctx, localKey)
	if err != nil {
		return nil, err
	}
	if !ok || value == "" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Coordinator) writeCacheArray(ctx context.Context, localKey string, items []json.RawMessage) error {
	if items == nil {
		items = []json.RawMessage{}
	}
	out, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.local.Set(ctx, localKey, string(out))
}

func jsonFieldValue(raw json.RawMessage, field string) string {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	if s, ok := m[field].(string); ok {
		return s
	}
	return ""
}

func matches(raw json.RawMessage, where []WhereClause) bool {
	for _, w := range where {
		if w.Op != OpEqual {
			return false
		}
		if jsonFieldValue(raw, w.Field) != w.Value {
			return false
		}
	}
	return true
}
