// Package metrics instruments the document synchronization protocol.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the sync protocol. A nil
// *Metrics is valid and records nothing, so wiring is optional in tests.
type Metrics struct {
	DocumentFetches prometheus.Counter
	DocumentWrites  prometheus.Counter
	FetchFailures   prometheus.Counter
	ParseFailures   prometheus.Counter
	WriteConflicts  prometheus.Counter
	SyncRetries     prometheus.Counter
}

// New creates and registers the collectors under the given namespace.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_fetches_total",
			Help:      "Total number of remote document fetches",
		}),
		DocumentWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_writes_total",
			Help:      "Total number of remote document writes",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_fetch_failures_total",
			Help:      "Total number of failed document fetches",
		}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_parse_failures_total",
			Help:      "Total number of malformed document contents",
		}),
		WriteConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_write_conflicts_total",
			Help:      "Total number of lost-update races detected before write",
		}),
		SyncRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_retries_total",
			Help:      "Total number of read-modify-write cycles retried",
		}),
	}

	reg.MustRegister(
		m.DocumentFetches,
		m.DocumentWrites,
		m.FetchFailures,
		m.ParseFailures,
		m.WriteConflicts,
		m.SyncRetries,
	)

	return m
}

// IncFetch records one document fetch attempt.
func (m *Metrics) IncFetch() {
	if m != nil {
		m.DocumentFetches.Inc()
	}
}

// IncWrite records one document write.
func (m *Metrics) IncWrite() {
	if m != nil {
		m.DocumentWrites.Inc()
	}
}

// IncFetchFailure records one failed fetch.
func (m *Metrics) IncFetchFailure() {
	if m != nil {
		m.FetchFailures.Inc()
	}
}

// IncParseFailure records one malformed document.
func (m *Metrics) IncParseFailure() {
	if m != nil {
		m.ParseFailures.Inc()
	}
}

// IncWriteConflict records one detected lost-update race.
func (m *Metrics) IncWriteConflict() {
	if m != nil {
		m.WriteConflicts.Inc()
	}
}

// IncSyncRetry records one retried read-modify-write cycle.
func (m *Metrics) IncSyncRetry() {
	if m != nil {
		m.SyncRetries.Inc()
	}
}
