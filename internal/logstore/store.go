// Package logstore puts the tape and the box behind one capability set so
// the recorder, the reader and the exporter do not care which backend a
// deployment picked.
package logstore

import (
	"context"
	"strings"

	"github.com/liinahamari/Loggy/internal/entry"
)

// Backend names accepted in configuration.
const (
	BackendTape = "tape"
	BackendBox  = "box"
)

// Match selects entries. A nil Match selects everything.
type Match func(entry.Entry) bool

// Store is the capability every backend provides.
type Store interface {
	Append(ctx context.Context, e entry.Entry) error
	// Entries returns every stored entry, oldest first.
	Entries(ctx context.Context) ([]entry.Entry, error)
	Clear(ctx context.Context) error
	Close() error
}

// Pager is implemented by backends that can filter and window natively.
type Pager interface {
	Page(ctx context.Context, match Match, offset, limit int) ([]entry.Entry, error)
}

// Sizer reports the on-disk footprint of the stored entries.
type Sizer interface {
	SizeBytes(ctx context.Context) (int64, error)
}

// Rawer exposes the backend's formatted text as stored.
type Rawer interface {
	Raw(ctx context.Context) (string, error)
}

// Raw returns the formatted text of s: the tape verbatim, or the entries of
// any other backend rendered one record after another.
func Raw(ctx context.Context, s Store) (string, error) {
	if r, ok := s.(Rawer); ok {
		return r.Raw(ctx)
	}
	entries, err := s.Entries(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(entry.FormatEntry(e))
	}
	return b.String(), nil
}

// Filter keeps the entries match selects, preserving order.
func Filter(entries []entry.Entry, match Match) []entry.Entry {
	if match == nil {
		return entries
	}
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}
