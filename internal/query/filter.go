package query

import (
	"strings"

	"github.com/liinahamari/Loggy/internal/entry"
)

// MainThread is the thread name NonMainThread excludes.
const MainThread = "main"

// FilterSet is a combination of predicates joined with logical AND.
type FilterSet uint8

const (
	// OnlyErrors keeps ERROR entries.
	OnlyErrors FilterSet = 1 << iota
	// NotLifecycle drops LIFECYCLE entries.
	NotLifecycle
	// NonMainThread keeps entries emitted off the main thread.
	NonMainThread
)

// Has reports whether every predicate in other is set.
func (f FilterSet) Has(other FilterSet) bool { return f&other == other }

// Match applies the predicates to one entry.
func (f FilterSet) Match(e entry.Entry) bool {
	if f.Has(OnlyErrors) && e.Priority != entry.Error {
		return false
	}
	if f.Has(NotLifecycle) && e.Priority == entry.Lifecycle {
		return false
	}
	if f.Has(NonMainThread) && e.Thread == MainThread {
		return false
	}
	return true
}

// Apply keeps the matching entries in their original order.
func (f FilterSet) Apply(entries []entry.Entry) []entry.Entry {
	if f == 0 {
		return entries
	}
	out := make([]entry.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f FilterSet) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	if f.Has(OnlyErrors) {
		parts = append(parts, "errors")
	}
	if f.Has(NotLifecycle) {
		parts = append(parts, "no_lifecycle")
	}
	if f.Has(NonMainThread) {
		parts = append(parts, "non_main")
	}
	return strings.Join(parts, "|")
}
