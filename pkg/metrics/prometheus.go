package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	InvoicesRender  *prometheus.CounterVec
	EmailDeliveries *prometheus.CounterVec
	ImportedRows    *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. A nil reg means the default registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking lifecycle transitions by kind and result",
		}, []string{"transition", "result"}),
		InvoicesRender: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_rendered_total",
			Help:      "Rendered invoice documents by result",
		}, []string{"result"}),
		EmailDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_emails_total",
			Help:      "Invoice email deliveries by result",
		}, []string{"result"}),
		ImportedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_import_rows_total",
			Help:      "Rows processed by the bulk rate import by outcome",
		}, []string{"outcome"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Kafka events published by topic and result",
		}, []string{"topic", "result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveTransition(transition string, err error) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(transition, result(err)).Inc()
}

func (m *Metrics) ObserveRender(err error) {
	if m == nil {
		return
	}
	m.InvoicesRender.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveEmail(err error) {
	if m == nil {
		return
	}
	m.EmailDeliveries.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveImport(outcome string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ImportedRows.WithLabelValues(outcome).Add(float64(n))
}

func (m *Metrics) ObservePublish(topic string, err error) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(topic, result(err)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
