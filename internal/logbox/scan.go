package logbox

import (
	"github.com/cockroachdb/pebble"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/errs"
)

// ScanOptions selects a window of entries.
type ScanOptions struct {
	// Offset skips this many matching entries.
	Offset int
	// Limit caps the result; 0 means no limit.
	Limit int
	// Reverse walks newest first.
	Reverse bool
	// Filter keeps only entries it returns true for. Nil keeps all.
	Filter func(entry.Entry) bool
}

// Scan returns the matching entries in ID order. Records that fail their
// checksum are skipped.
func (b *Box) Scan(opts ScanOptions) ([]entry.Entry, error) {
	low, high := entryBounds(b.name)
	iter, err := b.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: high})
	if err != nil {
		return nil, errs.NewIOError("scan", b.name, err)
	}
	defer iter.Close()

	first, step := iter.First, iter.Next
	if opts.Reverse {
		first, step = iter.Last, iter.Prev
	}

	out := make([]entry.Entry, 0, max(1, opts.Limit))
	skipped := 0
	for ok := first(); ok; ok = step() {
		entryID, okID := idFromKey(iter.Key())
		if !okID {
			continue
		}
		e, err := DecodeRecord(entryID, iter.Value())
		if err != nil {
			continue
		}
		if opts.Filter != nil && !opts.Filter(e) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, errs.NewIOError("scan", b.name, err)
	}
	return out, nil
}
