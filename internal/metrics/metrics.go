// Package metrics records per-run counters on a private Prometheus registry
// and writes them in the node_exporter textfile format.
//
// A nil *Run is valid and records nothing, so callers never branch on
// whether metrics were requested.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chatstat"

// Run holds the metrics of one collect run.
type Run struct {
	reg *prometheus.Registry

	messagesObserved  prometheus.Counter
	messagesSkipped   prometheus.Counter
	reactions         prometheus.Counter
	sentimentFailures prometheus.Counter
	entities          prometheus.Gauge
	analyzeDuration   prometheus.Histogram
	runDuration       prometheus.Gauge
	lastSuccess       prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New() *Run {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Run{
		reg: reg,
		messagesObserved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_observed_total",
			Help:      "Messages attributed to a sender and analysed",
		}),
		messagesSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_skipped_total",
			Help:      "System messages skipped for lack of a sender",
		}),
		reactions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Reactions counted across all messages",
		}),
		sentimentFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_failures_total",
			Help:      "Messages the sentiment scorer failed on",
		}),
		entities: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Users seen in the last run",
		}),
		analyzeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analyze_duration_seconds",
			Help:      "Duration of the batch category pass",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms .. ~16s
		}),
		runDuration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last collect run",
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last run completed",
		}),
	}
}

// MessageObserved implements stats.Recorder.
func (r *Run) MessageObserved() {
	if r != nil {
		r.messagesObserved.Inc()
	}
}

// MessageSkipped implements stats.Recorder.
func (r *Run) MessageSkipped() {
	if r != nil {
		r.messagesSkipped.Inc()
	}
}

// ReactionsCounted implements stats.Recorder.
func (r *Run) ReactionsCounted(n int) {
	if r != nil && n > 0 {
		r.reactions.Add(float64(n))
	}
}

// SentimentFailed implements stats.Recorder.
func (r *Run) SentimentFailed() {
	if r != nil {
		r.sentimentFailures.Inc()
	}
}

// CategoryPass implements stats.Recorder.
func (r *Run) CategoryPass(d time.Duration, entities int) {
	if r != nil {
		r.analyzeDuration.Observe(d.Seconds())
		r.entities.Set(float64(entities))
	}
}

// Finished records a completed run.
func (r *Run) Finished(d time.Duration, at time.Time) {
	if r != nil {
		r.runDuration.Set(d.Seconds())
		r.lastSuccess.Set(float64(at.Unix()))
	}
}

// Gatherer exposes the private registry.
func (r *Run) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// WriteTextfile writes the metrics to path atomically.
func (r *Run) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Gatherer())
}
