package logbox

import (
	"strings"
	"testing"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/pkg/id"
)

func TestRecordRoundTrip(t *testing.T) {
	e := entry.Entry{
		ID:        id.Make(1700000000123, 4),
		Timestamp: 1700000000123,
		Title:     "first line",
		Priority:  entry.Error,
		Body:      "\tsecond\n\tthird",
		Thread:    "worker-1",
	}
	got, err := DecodeRecord(e.ID, EncodeRecord(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != e {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, e)
	}
}

func TestRecordWithoutTitle(t *testing.T) {
	e := entry.Entry{ID: id.Make(5, 0), Timestamp: 5, Priority: entry.Info, Body: "short", Thread: "main"}
	got, err := DecodeRecord(e.ID, EncodeRecord(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.HasTitle() || got.Body != "short" {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestRecordCRCMismatch(t *testing.T) {
	e := entry.Entry{ID: id.Make(5, 0), Timestamp: 5, Priority: entry.Info, Body: "payload", Thread: "main"}
	b := EncodeRecord(e)
	b[len(b)-6] ^= 0xFF
	if _, err := DecodeRecord(e.ID, b); err == nil {
		t.Fatalf("expected crc mismatch")
	}
	if _, err := DecodeRecord(e.ID, b[:3]); err == nil {
		t.Fatalf("expected short record to fail")
	}
}

func TestRecordKeepsClippedTitle(t *testing.T) {
	msg := "\t" + strings.Repeat("indented remainder ", 8)
	e, err := entry.New(id.Make(9, 0), entry.Warn, "main", strings.Repeat("h", entry.DefaultThreshold)+msg, entry.DefaultThreshold)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !e.Clipped {
		t.Fatalf("single long line should be clipped: %+v", e)
	}
	got, err := DecodeRecord(e.ID, EncodeRecord(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != e {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, e)
	}
	if got.Text() != e.Text() {
		t.Fatalf("text changed: %q", got.Text())
	}
}
