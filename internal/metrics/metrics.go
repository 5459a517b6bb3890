// Package metrics holds Loggy's Prometheus collectors and the hooks that
// feed them from the tape, the box and the Pebble wrapper.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/liinahamari/Loggy/pkg/id"
)

// Drop reasons.
const (
	DropBlank     = "blank"
	DropQueueFull = "queue_full"
	DropClosed    = "closed"
)

var (
	EntriesAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loggy_entries_appended_total",
			Help: "Entries persisted by priority tag",
		},
		[]string{"priority"},
	)

	EntriesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loggy_entries_dropped_total",
			Help: "Emissions dropped before persistence by reason",
		},
		[]string{"reason"},
	)

	AppendErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loggy_append_errors_total",
			Help: "Failed persistence attempts",
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loggy_recorder_queue_depth",
			Help: "Entries waiting for the recorder worker",
		},
	)

	StoreSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "loggy_store_size_bytes",
			Help: "Current size of the log store",
		},
	)

	TapeEvictedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loggy_tape_evicted_bytes_total",
			Help: "Bytes removed from the front of the tape",
		},
	)

	BoxEvictedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loggy_box_evicted_entries_total",
			Help: "Entries trimmed from the box",
		},
	)

	BoxEvictedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loggy_box_evicted_bytes_total",
			Help: "Record bytes trimmed from the box",
		},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loggy_exports_total",
			Help: "Zip exports by outcome",
		},
		[]string{"status"},
	)

	StorageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loggy_storage_op_seconds",
			Help:    "Pebble operation latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"op"},
	)

	StorageBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loggy_storage_bytes_total",
			Help: "Bytes moved through Pebble by operation",
		},
		[]string{"op"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// TapeHook counts tape eviction.
type TapeHook struct{}

func (TapeHook) Evicted(bytes int64) { TapeEvictedBytes.Add(float64(bytes)) }

// BoxHook counts box trims.
type BoxHook struct{}

func (BoxHook) EntriesEvicted(_ string, _, _ id.ID, count int, bytes int64) {
	BoxEvictedEntries.Add(float64(count))
	BoxEvictedBytes.Add(float64(bytes))
}

// PebbleHook records storage latencies and volumes.
type PebbleHook struct{}

func (PebbleHook) ObserveWrite(elapsed time.Duration, bytes int) {
	StorageLatency.WithLabelValues("write").Observe(elapsed.Seconds())
	StorageBytes.WithLabelValues("write").Add(float64(bytes))
}

func (PebbleHook) ObserveRead(elapsed time.Duration, bytes int) {
	StorageLatency.WithLabelValues("read").Observe(elapsed.Seconds())
	StorageBytes.WithLabelValues("read").Add(float64(bytes))
}

func (PebbleHook) ObserveBatchCommit(elapsed time.Duration, _ int, bytes int) {
	StorageLatency.WithLabelValues("commit").Observe(elapsed.Seconds())
	StorageBytes.WithLabelValues("commit").Add(float64(bytes))
}
