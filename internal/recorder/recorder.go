package recorder

import (
	"context"
	"strings"
	"sync"

	"github.com/liinahamari/Loggy/internal/entry"
	"github.com/liinahamari/Loggy/internal/errs"
	"github.com/liinahamari/Loggy/internal/logstore"
	"github.com/liinahamari/Loggy/internal/metrics"
	"github.com/liinahamari/Loggy/pkg/id"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

type job struct {
	e     entry.Entry
	flush chan struct{}
}

// Recorder funnels entries from any goroutine into one store.
type Recorder struct {
	store  logstore.Store
	opts   Options
	logger logpkg.Logger
	gen    *id.Generator

	// mu guards closed and sends on queue.
	mu     sync.RWMutex
	closed bool
	queue  chan job

	errCh chan error
	done  chan struct{}
	once  sync.Once

	subsMu sync.RWMutex
	subs   map[int]func(entry.Entry)
	nextID int

	// outbox holds persisted entries waiting for subscribers.
	outMu    sync.Mutex
	outbox   []entry.Entry
	wake     chan struct{}
	notified chan struct{}

	Emitter
}

// New starts a Recorder writing to store.
func New(store logstore.Store, opts Options) *Recorder {
	opts.withDefaults()
	gen := id.NewGenerator()
	if opts.Clock != nil {
		gen = id.NewGeneratorWithClock(opts.Clock)
	}
	r := &Recorder{
		store:  store,
		opts:   opts,
		logger: opts.Logger.WithComponent("recorder"),
		gen:    gen,
		queue:  make(chan job, opts.QueueSize),
		errCh:  make(chan error, 16),
		done:   make(chan struct{}),
		subs:   make(map[int]func(entry.Entry)),

		wake:     make(chan struct{}, 1),
		notified: make(chan struct{}),
	}
	r.Emitter = Emitter{r: r, thread: opts.DefaultThread}
	go r.run()
	go r.dispatch()
	return r
}

// Thread returns an emitter that stamps entries with name.
func (r *Recorder) Thread(name string) Emitter {
	if strings.TrimSpace(name) == "" {
		name = r.opts.DefaultThread
	}
	return Emitter{r: r, thread: name}
}

// Emit builds an entry now and queues it. It returns ErrInvalidArgument for
// a blank message, ErrClosed after Close and ErrQueueFull under the Drop
// policy. Persistence errors are never returned here.
func (r *Recorder) Emit(p entry.Priority, thread, message string) (entry.Entry, error) {
	if !p.Valid() {
		return entry.Entry{}, errs.NewArgumentError("priority", p)
	}
	if strings.TrimSpace(message) == "" {
		metrics.EntriesDropped.WithLabelValues(metrics.DropBlank).Inc()
		return entry.Entry{}, errs.NewArgumentError("message", message)
	}
	if thread == "" {
		thread = r.opts.DefaultThread
	}
	e, err := entry.New(r.gen.Next(), p, thread, message, r.opts.Threshold)
	if err != nil {
		return entry.Entry{}, err
	}
	return e, r.enqueue(job{e: e})
}

func (r *Recorder) enqueue(j job) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		metrics.EntriesDropped.WithLabelValues(metrics.DropClosed).Inc()
		return errs.ErrClosed
	}
	if r.opts.Overflow == Drop && j.flush == nil {
		select {
		case r.queue <- j:
		default:
			metrics.EntriesDropped.WithLabelValues(metrics.DropQueueFull).Inc()
			r.report(errs.ErrQueueFull)
			return errs.ErrQueueFull
		}
	} else {
		r.queue <- j
	}
	metrics.QueueDepth.Set(float64(len(r.queue)))
	return nil
}

// Flush waits until everything queued before the call is persisted.
func (r *Recorder) Flush(ctx context.Context) error {
	marker := make(chan struct{})
	if err := r.enqueue(job{flush: marker}); err != nil {
		return err
	}
	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the queue, delivers pending notifications and stops the
// worker. Later emissions are dropped.
func (r *Recorder) Close() error {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.queue)
		r.mu.Unlock()
	})
	<-r.done
	<-r.notified
	return nil
}

// Errors yields persistence failures. Values are dropped when nobody reads.
func (r *Recorder) Errors() <-chan error { return r.errCh }

// Subscribe registers fn to run after each persisted entry. Calls happen in
// persistence order on a dispatch goroutine, not the worker, so fn may Emit
// or Flush; Flush does not wait for fn. fn must not call Close. The returned
// func removes it.
func (r *Recorder) Subscribe(fn func(entry.Entry)) (unsubscribe func()) {
	r.subsMu.Lock()
	key := r.nextID
	r.nextID++
	r.subs[key] = fn
	r.subsMu.Unlock()
	return func() {
		r.subsMu.Lock()
		delete(r.subs, key)
		r.subsMu.Unlock()
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	defer close(r.wake)
	ctx := context.Background()
	sizer, _ := r.store.(logstore.Sizer)
	for j := range r.queue {
		metrics.QueueDepth.Set(float64(len(r.queue)))
		if j.flush != nil {
			close(j.flush)
			continue
		}
		if err := r.store.Append(ctx, j.e); err != nil {
			metrics.AppendErrors.Inc()
			r.logger.Error("persist entry failed",
				logpkg.Str("priority", j.e.Priority.Tag()),
				logpkg.Str("id", j.e.ID.String()),
				logpkg.Err(err))
			r.report(err)
			continue
		}
		metrics.EntriesAppended.WithLabelValues(j.e.Priority.Tag()).Inc()
		if sizer != nil {
			if n, err := sizer.SizeBytes(ctx); err == nil {
				metrics.StoreSizeBytes.Set(float64(n))
			}
		}
		if r.opts.Echo {
			r.echo(j.e)
		}
		r.post(j.e)
	}
}

func (r *Recorder) report(err error) {
	select {
	case r.errCh <- err:
	default:
	}
}

// post hands e to the dispatch goroutine without blocking the worker.
func (r *Recorder) post(e entry.Entry) {
	r.subsMu.RLock()
	n := len(r.subs)
	r.subsMu.RUnlock()
	if n == 0 {
		return
	}
	r.outMu.Lock()
	r.outbox = append(r.outbox, e)
	r.outMu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Recorder) dispatch() {
	defer close(r.notified)
	for range r.wake {
		for {
			r.outMu.Lock()
			batch := r.outbox
			r.outbox = nil
			r.outMu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, e := range batch {
				r.notify(e)
			}
		}
	}
}

func (r *Recorder) notify(e entry.Entry) {
	r.subsMu.RLock()
	fns := make([]func(entry.Entry), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.subsMu.RUnlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (r *Recorder) echo(e entry.Entry) {
	fields := []logpkg.Field{logpkg.Str("thread", e.Thread), logpkg.Str("tag", e.Priority.Tag())}
	switch e.Priority {
	case entry.Debug:
		r.logger.Debug(e.Text(), fields...)
	case entry.Warn:
		r.logger.Warn(e.Text(), fields...)
	case entry.Error, entry.WTF:
		r.logger.Error(e.Text(), fields...)
	default:
		r.logger.Info(e.Text(), fields...)
	}
}
