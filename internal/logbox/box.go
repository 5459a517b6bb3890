package logbox

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/errs"
	pebblestore "github.com/liinahamari/Loggy/internal/storage/pebble"
)

// Option configures a Box.
type Option func(*Box)

// WithEvictionHook sets the hook told about trimmed entries.
func WithEvictionHook(h EvictionHook) Option {
	return func(b *Box) {
		if h != nil {
			b.hook = h
		}
	}
}

// Box holds the entries of one named log in Pebble.
type Box struct {
	db   *pebblestore.DB
	name string

	mu       sync.Mutex
	count    int64
	bytes    int64
	notifyCh chan struct{}
	hook     EvictionHook
}

// Open initializes a Box and loads its counters from metadata (if any).
func Open(db *pebblestore.DB, name string, opts ...Option) (*Box, error) {
	if db == nil {
		return nil, errs.NewArgumentError("db", "<nil>")
	}
	if name == "" {
		return nil, errs.NewArgumentError("name", name)
	}
	b := &Box{db: db, name: name, notifyCh: make(chan struct{}), hook: noopHook{}}
	for _, o := range opts {
		o(b)
	}
	meta, err := db.Get(KeyMeta(name))
	switch {
	case err == nil && len(meta) >= 16:
		b.count = int64(binary.BigEndian.Uint64(meta[0:8]))
		b.bytes = int64(binary.BigEndian.Uint64(meta[8:16]))
	case err != nil && !pebblestore.IsNotFound(err):
		return nil, errs.NewIOError("open box", name, err)
	}
	return b, nil
}

// Name returns the box name.
func (b *Box) Name() string { return b.name }

// Put persists the entries as a single atomic batch.
func (b *Box) Put(ctx context.Context, entries ...entry.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.db.NewBatch()
	defer batch.Close()

	count, size := b.count, b.bytes
	for _, e := range entries {
		val := EncodeRecord(e)
		if err := batch.Set(KeyEntry(b.name, e.ID), val, nil); err != nil {
			return errs.NewIOError("put", b.name, err)
		}
		count++
		size += int64(len(val))
	}
	if err := batch.Set(KeyMeta(b.name), encodeMeta(count, size), nil); err != nil {
		return errs.NewIOError("put", b.name, err)
	}
	if err := b.db.CommitBatch(ctx, batch); err != nil {
		return errs.NewIOError("put", b.name, err)
	}
	b.count, b.bytes = count, size

	close(b.notifyCh)
	b.notifyCh = make(chan struct{})
	return nil
}

// Count returns the number of stored entries.
func (b *Box) Count() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// SizeBytes returns the total encoded size of the stored entries.
func (b *Box) SizeBytes() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bytes
}

// RemoveAll deletes every entry of the box and resets its counters.
func (b *Box) RemoveAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	low, high := entryBounds(b.name)
	batch := b.db.NewBatch()
	defer batch.Close()
	if err := batch.DeleteRange(low, high, nil); err != nil {
		return errs.NewIOError("remove all", b.name, err)
	}
	if err := batch.Set(KeyMeta(b.name), encodeMeta(0, 0), nil); err != nil {
		return errs.NewIOError("remove all", b.name, err)
	}
	if err := b.db.CommitBatch(ctx, batch); err != nil {
		return errs.NewIOError("remove all", b.name, err)
	}
	b.count, b.bytes = 0, 0
	return nil
}

func encodeMeta(count, size int64) []byte {
	var meta [16]byte
	binary.BigEndian.PutUint64(meta[0:8], uint64(count))
	binary.BigEndian.PutUint64(meta[8:16], uint64(size))
	return meta[:]
}
