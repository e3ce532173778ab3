package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"mindfeed/internal/observability"
	"mindfeed/internal/store"
)

const saveTimeout = 5 * time.Second

// Persistable is a store whose durable state can be captured and replaced.
type Persistable[S any] interface {
	store.Observable
	Snapshot() S
	Restore(S)
}

// Binding keeps one store and one slot in sync.
type Binding[S any] struct {
	slot    string
	storage Storage
	target  Persistable[S]
	log     *observability.StoreLogger
	ctx     context.Context

	// saves are serialized so slot writes land in mutation order.
	saveMu      sync.Mutex
	unsubscribe func()
}

// Bind rehydrates target from slot and then saves target's snapshot after
// every mutation. A missing, unreadable or malformed slot leaves target
// with its defaults; Bind never fails.
func Bind[S any](ctx context.Context, slot string, storage Storage, target Persistable[S], migrate func([]byte) (S, Report)) *Binding[S] {
	b := &Binding[S]{
		slot:    slot,
		storage: storage,
		target:  target,
		log:     observability.NewStoreLogger(slot),
		ctx:     context.WithoutCancel(ctx),
	}
	b.load(ctx, migrate)
	b.unsubscribe = target.Subscribe(func() {
		_ = b.Flush(b.ctx)
	})
	return b
}

func (b *Binding[S]) load(ctx context.Context, migrate func([]byte) (S, Report)) {
	done := observability.TrackLatency(observability.PersistenceLatency, b.slot, "load")
	defer done()

	raw, err := b.storage.Load(ctx, b.slot)
	if errors.Is(err, ErrSlotNotFound) {
		b.log.LogLoad(ctx, SchemaVersion, false)
		return
	}
	if err != nil {
		b.log.LogError(ctx, err, "load")
		return
	}

	state, rep := migrate(raw)
	if !rep.Valid {
		b.log.LogError(ctx, errors.New("unreadable slot document"), "migrate")
		observability.MigrationRepairs.WithLabelValues(b.slot).Inc()
		return
	}
	if rep.Repairs > 0 {
		observability.MigrationRepairs.WithLabelValues(b.slot).Add(float64(rep.Repairs))
	}
	b.target.Restore(state)
	b.log.LogLoad(ctx, rep.Version, true)
}

// Flush writes the current snapshot. Failures are logged and counted and
// also returned for callers that flush explicitly.
func (b *Binding[S]) Flush(ctx context.Context) error {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	done := observability.TrackLatency(observability.PersistenceLatency, b.slot, "save")
	defer done()

	data, err := Encode(b.target.Snapshot())
	if err != nil {
		return b.fail(ctx, err)
	}

	saveCtx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	if err := b.storage.Save(saveCtx, b.slot, data); err != nil {
		return b.fail(ctx, err)
	}
	observability.PersistenceWrites.WithLabelValues(b.slot, "ok").Inc()
	b.log.LogSave(ctx, len(data))
	return nil
}

func (b *Binding[S]) fail(ctx context.Context, err error) error {
	observability.PersistenceWrites.WithLabelValues(b.slot, "error").Inc()
	b.log.LogError(ctx, err, "save")
	return err
}

// Close stops saving. The storage is left open.
func (b *Binding[S]) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}
