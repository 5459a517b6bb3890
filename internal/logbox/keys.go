package logbox

import (
	"github.com/liinahamari/Loggy/pkg/id"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - box/{name}/m
// - box/{name}/e/{id_be16}

const idLen = len(id.ID{})

var (
	boxPrefix  = []byte("box/")
	metaSuffix = []byte("/m")
	entrySeg   = []byte("/e/")
)

// KeyMeta builds the box metadata key.
func KeyMeta(name string) []byte {
	k := make([]byte, 0, len(boxPrefix)+len(name)+len(metaSuffix))
	k = append(k, boxPrefix...)
	k = append(k, name...)
	k = append(k, metaSuffix...)
	return k
}

// KeyEntryPrefix is the common prefix of every entry key in the box.
func KeyEntryPrefix(name string) []byte {
	k := make([]byte, 0, len(boxPrefix)+len(name)+len(entrySeg)+idLen)
	k = append(k, boxPrefix...)
	k = append(k, name...)
	k = append(k, entrySeg...)
	return k
}

// KeyEntry builds the entry key; the big-endian ID keeps entries in time order.
func KeyEntry(name string, entryID id.ID) []byte {
	return append(KeyEntryPrefix(name), entryID[:]...)
}

// entryBounds returns [low, high) covering all entry keys of the box.
func entryBounds(name string) ([]byte, []byte) {
	low := KeyEntryPrefix(name)
	high := append([]byte(nil), low...)
	high[len(high)-1]++
	return low, high
}

func idFromKey(key []byte) (id.ID, bool) {
	if len(key) < idLen {
		return id.ID{}, false
	}
	out, err := id.FromBytes(key[len(key)-idLen:])
	return out, err == nil
}
