package query

import "github.com/liinahamari/Loggy/internal/entry"

// DefaultPageSize is the number of entries per page.
const DefaultPageSize = 20

// Page returns page index of entries: the slice [index*size, index*size+size).
// A page past the end, a negative index or a non-positive size yields an
// empty, non-nil slice.
func Page(entries []entry.Entry, index, size int) []entry.Entry {
	if index < 0 || size <= 0 {
		return []entry.Entry{}
	}
	start := index * size
	if start >= len(entries) || start/size != index {
		return []entry.Entry{}
	}
	end := start + size
	if end > len(entries) || end < start {
		end = len(entries)
	}
	return entries[start:end]
}
