// Package id provides the sortable identifiers attached to log entries.
//
// # Format
//
// An ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// Byte-wise comparison preserves emission order, which is what the Pebble
// box uses as its key order, and the leading milliseconds double as the
// entry timestamp.
//
// # Monotonicity
//
// The Generator never goes backwards:
//   - on clock regression it pins to the last seen millisecond and bumps the
//     sequence;
//   - on sequence overflow within one millisecond it waits for the next one.
//
// Usage
//
//	g := id.NewGenerator()
//	entryID := g.Next()
//	ts := entryID.Ms()      // entry timestamp
//	s := entryID.String()   // hex form, id.Parse reverses it
package id
