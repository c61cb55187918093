package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	// counters
	CounterRequests         *prometheus.CounterVec
	CounterUsersCreated     prometheus.Counter
	CounterExercisesLogged  prometheus.Counter
	CounterUnknownUserCalls prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

func New(namespace, subsystem string) *Metrics {
	return newMetrics(namespace, subsystem, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewTestMetrics registers on a private registry so tests can build many
// instances without duplicate registration panics.
func NewTestMetrics() *Metrics {
	return NewWithRegistry("exercise_tracker", "test", prometheus.NewRegistry())
}

func NewWithRegistry(namespace, subsystem string, reg *prometheus.Registry) *Metrics {
	return newMetrics(namespace, subsystem, reg, reg)
}

// Handler exposes the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func newMetrics(namespace, subsystem string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: gatherer,
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of handled requests",
		}, []string{"method", "route", "status"}),
		CounterUsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "users_created_total",
			Help:      "Number of new users stored",
		}),
		CounterExercisesLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "exercises_logged_total",
			Help:      "Number of exercises stored",
		}),
		CounterUnknownUserCalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "unknown_user_requests_total",
			Help:      "Requests naming a user id that does not exist",
		}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of handled requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
