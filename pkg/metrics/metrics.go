package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration  *prometheus.HistogramVec
	DBQueryErrors    *prometheus.CounterVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCountTotal *prometheus.GaugeVec

	AvailabilityResponses  *prometheus.CounterVec
	MalformedBusyEntries   *prometheus.CounterVec
	ReservationOutcomes    *prometheus.CounterVec
	CompensationFailures   *prometheus.CounterVec
	PaymentWebhookEvents   *prometheus.CounterVec
	ExpiredPendingBookings *prometheus.CounterVec
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики с отдельным регистратором (удобно в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open database connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Database connections in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle database connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCountTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count_total",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),

		AvailabilityResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_responses_total",
			Help:        "Availability responses by degraded flag",
			ConstLabels: constLabels,
		}, []string{"fallback"}),
		MalformedBusyEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_malformed_busy_entries_total",
			Help:        "Busy ranges skipped because they could not be parsed",
			ConstLabels: constLabels,
		}, []string{}),
		ReservationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_outcomes_total",
			Help:        "Reservation attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		CompensationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_compensation_failures_total",
			Help:        "Compensation steps that failed and left an orphan",
			ConstLabels: constLabels,
		}, []string{"step"}),
		PaymentWebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_webhook_events_total",
			Help:        "Payment webhook events by type and result",
			ConstLabels: constLabels,
		}, []string{"type", "result"}),
		ExpiredPendingBookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "expired_pending_bookings_total",
			Help:        "Pending bookings expired by the sweep job",
			ConstLabels: constLabels,
		}, []string{}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConns,
		m.DBInUseConns,
		m.DBIdleConns,
		m.DBWaitCountTotal,
		m.AvailabilityResponses,
		m.MalformedBusyEntries,
		m.ReservationOutcomes,
		m.CompensationFailures,
		m.PaymentWebhookEvents,
		m.ExpiredPendingBookings,
	)

	return m
}

// ObserveHTTP фиксирует HTTP запрос
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Методы ниже безопасны для nil-получателя: метрики могут быть выключены в конфиге

func (m *Metrics) AvailabilityServed(fallback bool) {
	if m == nil {
		return
	}
	m.AvailabilityResponses.WithLabelValues(strconv.FormatBool(fallback)).Inc()
}

func (m *Metrics) MalformedBusySkipped(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.MalformedBusyEntries.WithLabelValues().Add(float64(count))
}

func (m *Metrics) ReservationOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ReservationOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CompensationFailed(step string) {
	if m == nil {
		return
	}
	m.CompensationFailures.WithLabelValues(step).Inc()
}

func (m *Metrics) WebhookEvent(eventType, result string) {
	if m == nil {
		return
	}
	m.PaymentWebhookEvents.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) PendingExpired(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ExpiredPendingBookings.WithLabelValues().Add(float64(count))
}
