package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the service exports. All methods are safe on a
// nil receiver so components can run without metrics in tests.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	PatientsRegisteredTotal prometheus.Counter
	SeedRecordsTotal        *prometheus.CounterVec
	StaffStatusChangesTotal *prometheus.CounterVec

	EventsPublishedTotal *prometheus.CounterVec
	CacheLookupsTotal    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)
	return &Collector{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),

		PatientsRegisteredTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "patients",
			Name:      "registered_total",
			Help:      "Total number of patients registered.",
		}),

		SeedRecordsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "patients",
			Name:      "seed_records_total",
			Help:      "Seed medical record outcomes after registration.",
		}, []string{"outcome"}),

		StaffStatusChangesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staff",
			Name:      "status_changes_total",
			Help:      "Staff status toggles by resulting status.",
		}, []string{"status"}),

		EventsPublishedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events handed to the broker, by type and result.",
		}, []string{"type", "result"}),

		CacheLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Directory cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}
}

func (c *Collector) PatientRegistered() {
	if c == nil {
		return
	}
	c.PatientsRegisteredTotal.Inc()
}

func (c *Collector) SeedOutcome(outcome string) {
	if c == nil {
		return
	}
	c.SeedRecordsTotal.WithLabelValues(outcome).Inc()
}

func (c *Collector) StaffStatusChanged(status string) {
	if c == nil {
		return
	}
	c.StaffStatusChangesTotal.WithLabelValues(status).Inc()
}

func (c *Collector) EventPublished(eventType string, err error) {
	if c == nil {
		return
	}
	res := "ok"
	if err != nil {
		res = "error"
	}
	c.EventsPublishedTotal.WithLabelValues(eventType, res).Inc()
}

func (c *Collector) CacheLookup(result string) {
	if c == nil {
		return
	}
	c.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
