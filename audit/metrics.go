package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the audit trail.
type Metrics struct {
	// Records appended, by action kind
	RecordsWritten *prometheus.CounterVec

	// Failed appends, by action kind
	WriteFailures *prometheus.CounterVec

	QueryFailures prometheus.Counter
	RecordsPurged prometheus.Counter
}

// NewMetrics registers the audit metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vneid_audit_records_written_total",
			Help: "Total audit records appended by action kind",
		}, []string{"action"}),

		WriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vneid_audit_write_failures_total",
			Help: "Total audit records that could not be written, by action kind",
		}, []string{"action"}),

		QueryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vneid_audit_query_failures_total",
			Help: "Total audit queries that failed at the store",
		}),

		RecordsPurged: factory.NewCounter(prometheus.CounterOpts{
			Name: "vneid_audit_records_purged_total",
			Help: "Total audit records removed by retention purges",
		}),
	}
}

func (m *Metrics) incWritten(kind ActionKind) {
	if m != nil {
		m.RecordsWritten.WithLabelValues(kind.label()).Inc()
	}
}

func (m *Metrics) incWriteFailure(kind ActionKind) {
	if m != nil {
		m.WriteFailures.WithLabelValues(kind.label()).Inc()
	}
}

func (m *Metrics) incQueryFailure() {
	if m != nil {
		m.QueryFailures.Inc()
	}
}

func (m *Metrics) addPurged(n int) {
	if m != nil && n > 0 {
		m.RecordsPurged.Add(float64(n))
	}
}
