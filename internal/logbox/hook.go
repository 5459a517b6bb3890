package logbox

import "github.com/liinahamari/Loggy/pkg/id"

// EvictionHook is an optional callback invoked when trims delete entries.
// first and last bound the deleted IDs of one committed batch.
type EvictionHook interface {
	EntriesEvicted(box string, first, last id.ID, count int, bytes int64)
}

type noopHook struct{}

func (noopHook) EntriesEvicted(string, id.ID, id.ID, int, int64) {}
