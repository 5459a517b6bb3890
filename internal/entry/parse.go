package entry

import (
	"regexp"
	"strings"
	"time"

	"github.com/liinahamari/Loggy/pkg/id"
)

var recordHeader = regexp.MustCompile(`(?m)^/([IDWELA])/ (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}) \(Thread: ([^\n]*?)\): `)

// Parsed is the result of reading a tape back into entries.
type Parsed struct {
	Entries []Entry
	// Skipped counts bytes that did not belong to a complete record: the
	// partial record left at the head of the tape by front eviction.
	Skipped int
}

// ParseTape splits tape contents into entries in tape order. A malformed
// leading fragment is dropped and reported in Skipped. Titles are
// re-derived with threshold.
func ParseTape(data string, threshold int) Parsed {
	var out Parsed
	locs := recordHeader.FindAllStringSubmatchIndex(data, -1)
	if len(locs) == 0 {
		out.Skipped = len(data)
		return out
	}
	out.Skipped = locs[0][0]
	out.Entries = make([]Entry, 0, len(locs))

	var lastMs int64 = -1
	var seq uint64
	for i, loc := range locs {
		end := len(data)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSuffix(data[loc[1]:end], RecordTerminator)

		p, err := ParsePriority(data[loc[2]:loc[3]])
		if err != nil {
			out.Skipped += end - loc[0]
			continue
		}
		ts, err := time.ParseInLocation(TimeLayout, data[loc[4]:loc[5]], time.Local)
		if err != nil {
			out.Skipped += end - loc[0]
			continue
		}
		ms := ts.UnixMilli()
		if ms == lastMs {
			seq++
		} else {
			seq = 0
			lastMs = ms
		}
		e, err := New(id.Make(ms, seq), p, data[loc[6]:loc[7]], body, threshold)
		if err != nil {
			out.Skipped += end - loc[0]
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	return out
}
