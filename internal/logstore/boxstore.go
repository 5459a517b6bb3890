package logstore

import (
	"context"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/logbox"
	pebblestore "github.com/liinahamari/Loggy/internal/storage/pebble"
)

// trimBatch bounds the deletes committed per trim batch.
const trimBatch = 1024

// BoxStore keeps entries in a Pebble box trimmed to a byte volume.
type BoxStore struct {
	box    *logbox.Box
	db     *pebblestore.DB
	volume int64
}

// NewBoxStore wraps box. When db is non-nil the store owns it and closes it.
func NewBoxStore(box *logbox.Box, db *pebblestore.DB, volume int64) *BoxStore {
	return &BoxStore{box: box, db: db, volume: volume}
}

// Box returns the underlying box.
func (s *BoxStore) Box() *logbox.Box { return s.box }

func (s *BoxStore) Append(ctx context.Context, e entry.Entry) error {
	if err := s.box.Put(ctx, e); err != nil {
		return err
	}
	if s.volume > 0 {
		if _, err := s.box.TrimToMaxBytes(ctx, s.volume, trimBatch); err != nil {
			return err
		}
	}
	return nil
}

func (s *BoxStore) Entries(_ context.Context) ([]entry.Entry, error) {
	return s.box.Scan(logbox.ScanOptions{})
}

func (s *BoxStore) Page(_ context.Context, match Match, offset, limit int) ([]entry.Entry, error) {
	return s.box.Scan(logbox.ScanOptions{Offset: offset, Limit: limit, Filter: match})
}

func (s *BoxStore) Clear(ctx context.Context) error { return s.box.RemoveAll(ctx) }

func (s *BoxStore) SizeBytes(_ context.Context) (int64, error) { return s.box.SizeBytes(), nil }

func (s *BoxStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
