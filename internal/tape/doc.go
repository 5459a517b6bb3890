// Package tape implements Loggy's bounded append-only log file.
//
// # Overview
//
// A Tape is a single text file capped at Volume bytes. Appends that would
// push the file past the cap first drop bytes from the front, so the file
// behaves like a circular buffer at byte granularity:
//
//	t := tape.New(10 << 20)
//	_ = t.PointAt("/var/lib/loggy/logs.txt")
//	_ = t.Append(entry.Format("started", entry.Info, "main", time.Now()))
//	all, _ := t.ReadAll()
//
// # Eviction
//
// Eviction counts bytes, not records. It removes exactly as many bytes as
// the new line carries, so a partially evicted record can remain at the
// head of the file. Readers (entry.ParseTape) drop that fragment.
//
// Eviction rewrites the surviving tail into a staging file in the same
// directory and renames it over the tape, so a crash mid-eviction leaves
// either the old or the new file.
package tape
