package observability

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
)

const namespace = "strengths"

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	reg      prometheus.Registerer
	gatherer prometheus.Gatherer

	apiRequests    *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	apiInflight    prometheus.Gauge
	selections     *prometheus.CounterVec
	aspectsSkipped *prometheus.CounterVec
	relaxations    *prometheus.CounterVec
	dayViews       *prometheus.CounterVec
	cacheOps       *prometheus.CounterVec
	importRows     *prometheus.CounterVec
	toggles        *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewMetricsWith(reg, reg)
}

// NewMetricsWith registers on reg. Collectors already present on reg are reused.
func NewMetricsWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{reg: reg, gatherer: gatherer}
	m.apiRequests = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"}))
	m.apiLatency = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"}))
	m.apiInflight = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	}))
	m.selections = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "selection",
		Name:      "outcomes_total",
		Help:      "Daily selection calls by outcome (generated, reused, failed).",
	}, []string{"outcome"}))
	m.aspectsSkipped = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "selection",
		Name:      "aspects_skipped_total",
		Help:      "Aspects left out of a day because no prompt matched the user's themes.",
	}, []string{"aspect"}))
	m.relaxations = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "selection",
		Name:      "exclusion_relaxed_total",
		Help:      "Aspects that repeated a recent prompt because nothing unseen was left.",
	}, []string{"aspect"}))
	m.dayViews = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "daily",
		Name:      "views_total",
		Help:      "Day views served by source (selection, cache, fallback) and fallback reason.",
	}, []string{"source", "reason"}))
	m.cacheOps = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "daily",
		Name:      "cache_operations_total",
		Help:      "Day cache operations by op and result.",
	}, []string{"op", "result"}))
	m.importRows = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Imported prompt rows by outcome (inserted, skipped, invalid).",
	}, []string{"outcome"}))
	m.toggles = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "completion",
		Name:      "toggles_total",
		Help:      "Completion toggles by resulting state.",
	}, []string{"completed"}))
	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// RegisterDBStats exports connection pool stats for db.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) {
	if m == nil || db == nil {
		return
	}
	_ = m.reg.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPIRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) DecInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) SelectionOutcome(outcome string) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AspectSkipped(aspect types.Aspect) {
	if m == nil {
		return
	}
	m.aspectsSkipped.WithLabelValues(string(aspect)).Inc()
}

func (m *Metrics) ExclusionRelaxed(aspect types.Aspect) {
	if m == nil {
		return
	}
	m.relaxations.WithLabelValues(string(aspect)).Inc()
}

func (m *Metrics) DayViewServed(source, reason string) {
	if m == nil {
		return
	}
	m.dayViews.WithLabelValues(source, reason).Inc()
}

func (m *Metrics) CacheOp(op, result string) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues(op, result).Inc()
}

func (m *Metrics) ImportRows(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importRows.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) CompletionToggled(completed bool) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(strconv.FormatBool(completed)).Inc()
}
