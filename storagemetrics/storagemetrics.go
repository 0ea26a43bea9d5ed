// Package storagemetrics wraps a storage.Host with Prometheus counters and
// latency histograms for each of the four host primitives, the same
// labeled-counters-plus-rate style metrics/disc-collector.go uses for disk
// I/O, applied here to the library's storage boundary instead of a block
// device.
package storagemetrics

import (
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chainkv/onchain-collections/storage"
)

var log = logging.Logger("storagemetrics")

// instrumented decorates a storage.Host with call counters, labeled by op
// and result ("ok"/"error"), and latency histograms, labeled by op.
type instrumented struct {
	next storage.Host

	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// Instrument returns a Host that forwards every call to next, recording
// Prometheus metrics under namespace ns along the way. ns is typically the
// contract or service name, so metrics from multiple embedded collections
// don't collide in one process's registry.
func Instrument(ns string, next storage.Host) storage.Host {
	i := &instrumented{
		next: next,
		calls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "storage",
			Name:      "calls_total",
			Help:      "Number of storage host calls, by operation and result.",
		}, []string{"op", "result"}),
		latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "storage",
			Name:      "call_duration_seconds",
			Help:      "Storage host call latency, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	return i
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		log.Warnw("storage host call failed", "op", op, "error", err)
	}
	i.calls.WithLabelValues(op, result).Inc()
	i.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Read(key []byte) ([]byte, bool, error) {
	start := time.Now()
	v, ok, err := i.next.Read(key)
	i.observe("read", start, err)
	return v, ok, err
}

func (i *instrumented) Write(key, value []byte) (bool, error) {
	start := time.Now()
	prior, err := i.next.Write(key, value)
	i.observe("write", start, err)
	return prior, err
}

func (i *instrumented) Remove(key []byte) (bool, error) {
	start := time.Now()
	prior, err := i.next.Remove(key)
	i.observe("remove", start, err)
	return prior, err
}

func (i *instrumented) Has(key []byte) (bool, error) {
	start := time.Now()
	ok, err := i.next.Has(key)
	i.observe("has", start, err)
	return ok, err
}
