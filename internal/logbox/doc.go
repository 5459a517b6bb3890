// Package logbox is the structured log store: entries persisted in Pebble
// under a named box, ordered by entry ID.
//
// # Overview
//
// Keys are lexicographically ordered so a range scan walks entries oldest
// first:
//   - box/{name}/m           (box metadata: entry count, value bytes)
//   - box/{name}/e/{id_be16} (entries)
//
// Records are stored as: varint headerLen | header | payload | crc32c(header|payload).
// The header carries ts(8B BE) | priority(1B) | flags(1B); the payload holds the
// length-prefixed title, body and thread.
//
// API surface (internal)
//
//	b, _ := Open(db, "logs")
//	_ = b.Put(ctx, e1, e2)
//
//	// Page through entries, oldest first, with an optional predicate
//	page, _ := b.Scan(ScanOptions{Offset: 20, Limit: 20, Filter: onlyErrors})
//
//	// Keep the box within a byte budget; whole entries go, oldest first
//	_, _ = b.TrimToMaxBytes(ctx, 10<<20, 1024)
//
//	// Blocking wait/notify for live readers
//	woke := b.WaitForPut(200 * time.Millisecond)
//	_ = woke
//
// # Eviction hook
//
// When a trim deletes entries the EvictionHook is told the ID range and the
// number of value bytes released for each committed batch.
package logbox
