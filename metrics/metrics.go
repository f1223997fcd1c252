// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's collectors.
type Metrics struct {
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	customersCreated prometheus.Counter
	ordersCreated    prometheus.Counter
	logins           *prometheus.CounterVec
	reminders        *prometheus.CounterVec
}

// New registers the collectors with prometheus.DefaultRegisterer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors with registerer. Collectors that are
// already registered are reused, so building twice against one registry is safe.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		requests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundromat_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"})),
		requestDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "laundromat_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1, 2.5},
		}, []string{"method", "route"})),
		customersCreated: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundromat_customers_created_total",
			Help: "Customers registered",
		})),
		ordersCreated: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laundromat_laundry_orders_created_total",
			Help: "Laundry orders recorded",
		})),
		logins: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundromat_login_attempts_total",
			Help: "Login attempts by result",
		}, []string{"result"})),
		reminders: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laundromat_pickup_reminders_total",
			Help: "Pick-up reminder SMS by status",
		}, []string{"status"})),
	}
}

func register[C prometheus.Collector](registerer prometheus.Registerer, c C) C {
	if err := registerer.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (m *Metrics) CustomerCreated() {
	if m == nil {
		return
	}
	m.customersCreated.Inc()
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

// LoginAttempt records a login by result ("success" or "failure").
func (m *Metrics) LoginAttempt(success bool) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

// ReminderSent records a reminder attempt by status.
func (m *Metrics) ReminderSent(status string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(status).Inc()
}
