package id

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestOrderingMonotonic(t *testing.T) {
	g := NewGeneratorWithClock(func() int64 { return 1000 })

	a := g.Next()
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected a<b")
	}
	if a.Ms() != 1000 || b.Ms() != 1000 {
		t.Fatalf("ms not embedded: %d %d", a.Ms(), b.Ms())
	}
	if b.Seq() != a.Seq()+1 {
		t.Fatalf("expected consecutive sequences, got %d and %d", a.Seq(), b.Seq())
	}
}

func TestClockRegressionGuard(t *testing.T) {
	var now atomic.Int64
	now.Store(1000)
	g := NewGeneratorWithClock(now.Load)

	a := g.Next()
	now.Store(900)
	b := g.Next()
	if a.Compare(b) >= 0 {
		t.Fatalf("expected b>a despite clock regression")
	}
	if b.Ms() != 1000 {
		t.Fatalf("expected pinned ms 1000, got %d", b.Ms())
	}
}

func TestSequenceOverflowWaitsNextMs(t *testing.T) {
	var now atomic.Int64
	now.Store(2000)
	g := NewGeneratorWithClock(now.Load)
	g.lastMs = 2000
	g.sequence = ^uint64(0) - 1

	_ = g.Next()

	done := make(chan ID)
	go func() { done <- g.Next() }()
	time.AfterFunc(10*time.Millisecond, func() { now.Store(2001) })

	select {
	case got := <-done:
		if got.Ms() != 2001 || got.Seq() != 0 {
			t.Fatalf("expected reset at 2001, got ms=%d seq=%d", got.Ms(), got.Seq())
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for overflow handling")
	}
}

func TestParseRoundTrip(t *testing.T) {
	orig := Make(1_700_000_000_000, 42)
	got, err := Parse(orig.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != orig {
		t.Fatalf("got %s want %s", got, orig)
	}
	if _, err := Parse("zz"); err == nil {
		t.Fatalf("expected error for non-hex input")
	}
	if _, err := FromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for short input")
	}
}

func TestConcurrentUnique(t *testing.T) {
	g := NewGenerator()
	const workers, per = 8, 500
	var mu sync.Mutex
	seen := make(map[ID]struct{}, workers*per)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]ID, 0, per)
			for i := 0; i < per; i++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			for _, v := range local {
				seen[v] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Fatalf("want %d unique ids, got %d", workers*per, len(seen))
	}
}

func TestJSONUsesHex(t *testing.T) {
	orig := Make(1_700_000_000_000, 7)
	b, err := json.Marshal(struct{ ID ID }{orig})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"ID":"`+orig.String()+`"}` {
		t.Fatalf("unexpected json %s", b)
	}
	var back struct{ ID ID }
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != orig {
		t.Fatalf("round trip mismatch")
	}
}
