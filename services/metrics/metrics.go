// Package metrics holds the Prometheus collectors for catalog ingestion and selection tallies.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	ingestRunsTotal         *prometheus.CounterVec
	ingestedItemsTotal      *prometheus.CounterVec
	skippedCandidatesTotal  prometheus.Counter
	capacityRejectionsTotal *prometheus.CounterVec
	partialFailuresTotal    prometheus.Counter
	tallyRunsTotal          *prometheus.CounterVec
	tallyDuration           prometheus.Histogram
	queueMessagesTotal      *prometheus.CounterVec
}

// New creates and registers the collectors on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.ingestRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menupick_ingest_runs_total",
			Help: "Total number of batch ingestion runs",
		},
		[]string{"status"}, // status: success, capacity_exceeded, partial, error
	)

	m.ingestedItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menupick_ingested_items_total",
			Help: "Total number of meal items committed to the catalog",
		},
		[]string{"mess_type", "category", "subcategory"},
	)

	m.skippedCandidatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menupick_skipped_candidates_total",
			Help: "Total number of candidates dropped for an empty name",
		},
	)

	m.capacityRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menupick_capacity_rejections_total",
			Help: "Total number of ingestion runs rejected by a saturated leaf",
		},
		[]string{"mess_type", "category", "subcategory"},
	)

	m.partialFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "menupick_partial_ingestion_failures_total",
			Help: "Total number of ingestion runs that committed some leaves and then failed",
		},
	)

	m.tallyRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menupick_tally_runs_total",
			Help: "Total number of selection tally runs",
		},
		[]string{"status"},
	)

	m.tallyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "menupick_tally_duration_seconds",
			Help:    "Time taken to read state and tally selections",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	m.queueMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menupick_queue_messages_total",
			Help: "Total number of queue messages handled by the worker",
		},
		[]string{"queue", "status"}, // status: success, error, mismatch
	)
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.ingestRunsTotal.Describe(ch)
	m.ingestedItemsTotal.Describe(ch)
	m.skippedCandidatesTotal.Describe(ch)
	m.capacityRejectionsTotal.Describe(ch)
	m.partialFailuresTotal.Describe(ch)
	m.tallyRunsTotal.Describe(ch)
	m.tallyDuration.Describe(ch)
	m.queueMessagesTotal.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.ingestRunsTotal.Collect(ch)
	m.ingestedItemsTotal.Collect(ch)
	m.skippedCandidatesTotal.Collect(ch)
	m.capacityRejectionsTotal.Collect(ch)
	m.partialFailuresTotal.Collect(ch)
	m.tallyRunsTotal.Collect(ch)
	m.tallyDuration.Collect(ch)
	m.queueMessagesTotal.Collect(ch)
}

func (m *Metrics) RecordIngestRun(status string) {
	if m == nil {
		return
	}
	m.ingestRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordCommitted(messType, category, subcategory string, n int) {
	if m == nil {
		return
	}
	m.ingestedItemsTotal.WithLabelValues(messType, category, subcategory).Add(float64(n))
}

func (m *Metrics) RecordSkipped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.skippedCandidatesTotal.Add(float64(n))
}

func (m *Metrics) RecordCapacityRejection(messType, category, subcategory string) {
	if m == nil {
		return
	}
	m.capacityRejectionsTotal.WithLabelValues(messType, category, subcategory).Inc()
}

func (m *Metrics) RecordPartialFailure() {
	if m == nil {
		return
	}
	m.partialFailuresTotal.Inc()
}

func (m *Metrics) RecordTally(duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.tallyRunsTotal.WithLabelValues(status).Inc()
	m.tallyDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordQueueMessage(queue, status string) {
	if m == nil {
		return
	}
	m.queueMessagesTotal.WithLabelValues(queue, status).Inc()
}
