package logbox

import (
	"context"

	"github.com/cockroachdb/pebble"

	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/pkg/id"
)

// TrimToMaxBytes deletes the oldest entries until the stored value bytes
// fit in maxBytes. Deletes are committed in batches of up to batchLimit keys.
// Returns the number of deleted entries.
func (b *Box) TrimToMaxBytes(ctx context.Context, maxBytes int64, batchLimit int) (int, error) {
	if batchLimit <= 0 {
		batchLimit = 1024
	}
	if maxBytes < 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bytes <= maxBytes {
		return 0, nil
	}

	low, high := entryBounds(b.name)
	iter, err := b.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return 0, errs.NewIOError("trim", b.name, err)
	}
	defer iter.Close()

	deleted := 0
	for ok := iter.First(); ok && b.bytes > maxBytes; {
		batch := b.db.NewBatch()
		var first, last id.ID
		var freed int64
		n := 0
		for ok && n < batchLimit && b.bytes-freed > maxBytes {
			entryID, _ := idFromKey(iter.Key())
			if n == 0 {
				first = entryID
			}
			last = entryID
			freed += int64(len(iter.Value()))
			if err := batch.Delete(iter.Key(), nil); err != nil {
				batch.Close()
				return deleted, errs.NewIOError("trim", b.name, err)
			}
			n++
			ok = iter.Next()
		}
		if n == 0 {
			batch.Close()
			break
		}
		if err := batch.Set(KeyMeta(b.name), encodeMeta(b.count-int64(n), b.bytes-freed), nil); err != nil {
			batch.Close()
			return deleted, errs.NewIOError("trim", b.name, err)
		}
		if err := b.db.CommitBatch(ctx, batch); err != nil {
			batch.Close()
			return deleted, errs.NewIOError("trim", b.name, err)
		}
		batch.Close()
		b.count -= int64(n)
		b.bytes -= freed
		deleted += n
		b.hook.EntriesEvicted(b.name, first, last, n, freed)
	}
	return deleted, nil
}
