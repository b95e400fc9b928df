package application

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/storage"
	"github.com/go-pkgz/lgr"
)

type actorKey struct{}

// WithActor tags ctx with the surface that issued a mutation, for the audit log.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return "user"
}

// blobs reads and writes one service's keys. A key whose last read failed
// or did not decode is held: writes to it are skipped until a later read
// succeeds, so a fallback value never replaces data that is still on disk.
type blobs struct {
	store domain.Store
	log   lgr.L

	mu   sync.Mutex
	held map[string]bool
}

func newBlobs(store domain.Store, log lgr.L) *blobs {
	return &blobs{store: store, log: log, held: map[string]bool{}}
}

// Held reports whether key is write-protected after a failed read.
func (b *blobs) Held(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held[key]
}

func (b *blobs) hold(key string, held bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if held {
		b.held[key] = true
		return
	}
	delete(b.held, key)
}

// persist writes v under key. Failures are logged and swallowed: the
// in-memory state stays authoritative and is not rolled back.
func persist(ctx context.Context, b *blobs, key string, v any) {
	if b.Held(key) {
		b.log.Logf("[WARN] not writing %s, the stored value could not be read", key)
		return
	}
	if err := storage.SaveJSON(ctx, b.store, key, v); err != nil {
		b.log.Logf("[WARN] persist %s failed: %v", key, err)
	}
}

// load reads key into v's type. A missing or unreadable blob reports
// found=false; unreadable ones are logged and hold the key.
func load[T any](ctx context.Context, b *blobs, key string) (T, bool) {
	v, found, err := storage.LoadJSON[T](ctx, b.store, key)
	if err != nil {
		b.log.Logf("[WARN] load %s failed: %v", key, err)
		b.hold(key, true)
		var zero T
		return zero, false
	}
	b.hold(key, false)
	return v, found
}

// record writes an audit event, logging failures.
func record(ctx context.Context, audit domain.AuditLogger, log lgr.L, action, aggregate string, metadata map[string]interface{}) {
	if audit == nil {
		return
	}
	if err := audit.Log(action, aggregate, actorFrom(ctx), metadata); err != nil {
		log.Logf("[WARN] audit %s failed: %v", action, err)
	}
}

func loggerOrNoOp(l lgr.L) lgr.L {
	if l == nil {
		return lgr.NoOp
	}
	return l
}
