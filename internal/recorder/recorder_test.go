package recorder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/internal/logbox"
	"github.com/liinahamari/Loggy/internal/logstore"
	"github.com/liinahamari/Loggy/internal/query"
	pebblestore "github.com/liinahamari/Loggy/internal/storage/pebble"
	"github.com/liinahamari/Loggy/internal/tape"
)

func newTapeStore(t *testing.T) logstore.Store {
	t.Helper()
	tp := tape.New(tape.DefaultVolume)
	require.NoError(t, tp.PointAt(filepath.Join(t.TempDir(), "tape.log")))
	return logstore.NewTapeStore(tp, entry.DefaultThreshold, nil)
}

func newBoxStore(t *testing.T) logstore.Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever})
	require.NoError(t, err)
	box, err := logbox.Open(db, "logs")
	require.NoError(t, err)
	s := logstore.NewBoxStore(box, db, 0)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRecorder(t *testing.T, store logstore.Store, opts Options) *Recorder {
	t.Helper()
	r := New(store, opts)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func flush(t *testing.T, r *Recorder) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, r.Flush(ctx))
}

func TestTenThousandInfoCallsPageBackDistinct(t *testing.T) {
	for name, open := range map[string]func(*testing.T) logstore.Store{"tape": newTapeStore, "box": newBoxStore} {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			r := newRecorder(t, store, Options{})
			const n = 10000
			for i := 0; i < n; i++ {
				r.Info(fmt.Sprintf("unique title %05d", i))
			}
			flush(t, r)

			svc := query.NewService(store, nil)
			seen := make(map[string]struct{}, n)
			var lastTs int64
			for page := 0; ; page++ {
				res := svc.Page(context.Background(), query.Request{Page: page})
				if res.Status == query.Empty {
					break
				}
				require.Equal(t, query.Success, res.Status)
				for _, e := range res.Entries {
					_, dup := seen[e.Body]
					require.False(t, dup, "duplicate %q", e.Body)
					seen[e.Body] = struct{}{}
					require.GreaterOrEqual(t, e.Timestamp, lastTs)
					lastTs = e.Timestamp
				}
			}
			assert.Len(t, seen, n)
		})
	}
}

func TestBlankMessagesAreDropped(t *testing.T) {
	store := newTapeStore(t)
	r := newRecorder(t, store, Options{})
	r.Info("")
	r.Warn("  \n\t ")
	_, err := r.Emit(entry.Debug, "main", " ")
	assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	flush(t, r)

	all, err := store.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestThreadsAndPriorities(t *testing.T) {
	store := newBoxStore(t)
	r := newRecorder(t, store, Options{})
	r.Info("a")
	r.Debug("b")
	r.Thread("io").Warn("c")
	r.Lifecycle("d")
	r.Thread("").WTF("e")
	r.Error("boom", fmt.Errorf("outer: %w", errors.New("inner")))
	flush(t, r)

	all, err := store.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 6)
	want := []entry.Priority{entry.Info, entry.Debug, entry.Warn, entry.Lifecycle, entry.WTF, entry.Error}
	for i, e := range all {
		assert.Equal(t, want[i], e.Priority)
	}
	assert.Equal(t, "io", all[2].Thread)
	assert.Equal(t, "main", all[4].Thread)
	assert.Equal(t, "label: boom\nouter: inner\n\tinner", all[5].Text())
}

func TestCloseDrainsAndRejects(t *testing.T) {
	store := newTapeStore(t)
	r := New(store, Options{})
	for i := 0; i < 50; i++ {
		r.Info(fmt.Sprintf("m%d", i))
	}
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	all, err := store.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 50)

	_, err = r.Emit(entry.Info, "main", "late")
	assert.True(t, errors.Is(err, errs.ErrClosed))
	assert.True(t, errors.Is(r.Flush(context.Background()), errs.ErrClosed))
}

type gatedStore struct {
	logstore.Store
	gate chan struct{}
}

func (s gatedStore) Append(ctx context.Context, e entry.Entry) error {
	<-s.gate
	return s.Store.Append(ctx, e)
}

func TestDropPolicyReportsQueueFull(t *testing.T) {
	gate := make(chan struct{})
	store := gatedStore{Store: newTapeStore(t), gate: gate}
	r := New(store, Options{QueueSize: 2, Overflow: Drop})

	var dropped int
	for i := 0; i < 10; i++ {
		if _, err := r.Emit(entry.Info, "main", fmt.Sprintf("m%d", i)); errors.Is(err, errs.ErrQueueFull) {
			dropped++
		}
	}
	assert.Greater(t, dropped, 0)
	close(gate)
	require.NoError(t, r.Close())

	select {
	case err := <-r.Errors():
		assert.True(t, errors.Is(err, errs.ErrQueueFull))
	default:
		t.Fatal("expected queue-full report")
	}
}

type failingStore struct{ logstore.Store }

func (failingStore) Append(context.Context, entry.Entry) error {
	return errs.NewIOError("append", "tape", errors.New("disk gone"))
}

func TestPersistenceErrorsNeverReachCaller(t *testing.T) {
	r := newRecorder(t, failingStore{}, Options{})
	r.Info("lost")
	flush(t, r)

	select {
	case err := <-r.Errors():
		assert.True(t, errors.Is(err, errs.ErrIO))
	case <-time.After(time.Second):
		t.Fatal("expected persistence error")
	}
}

func TestSubscribe(t *testing.T) {
	r := newRecorder(t, newTapeStore(t), Options{})
	var mu sync.Mutex
	var got []string
	unsubscribe := r.Subscribe(func(e entry.Entry) {
		mu.Lock()
		got = append(got, e.Body)
		mu.Unlock()
	})
	seen := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), got...)
	}
	r.Info("one")
	flush(t, r)
	require.Eventually(t, func() bool { return len(seen()) == 1 }, 5*time.Second, 5*time.Millisecond)
	unsubscribe()
	r.Info("two")
	require.NoError(t, r.Close())

	assert.Equal(t, []string{"one"}, seen())
}

func TestSubscriberMayEmitAndFlush(t *testing.T) {
	store := newTapeStore(t)
	r := newRecorder(t, store, Options{QueueSize: 1, Overflow: Block})
	const echoes = 20
	done := make(chan error, 1)
	r.Subscribe(func(e entry.Entry) {
		if e.Body != "seed" {
			return
		}
		for i := 0; i < echoes; i++ {
			if _, err := r.Emit(entry.Info, "sub", fmt.Sprintf("echo %d", i)); err != nil {
				done <- err
				return
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- r.Flush(ctx)
	})

	r.Info("seed")
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("subscriber blocked the recorder")
	}

	entries, err := store.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, echoes+1)
}

func TestParseOverflow(t *testing.T) {
	o, err := ParseOverflow("DROP")
	require.NoError(t, err)
	assert.Equal(t, Drop, o)
	o, err = ParseOverflow("")
	require.NoError(t, err)
	assert.Equal(t, Block, o)
	_, err = ParseOverflow("spill")
	assert.Error(t, err)
}
