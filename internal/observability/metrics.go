package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	bookingEventsTotal  *prometheus.CounterVec
	slotConflictsTotal  prometheus.Counter
	notificationsTotal  *prometheus.CounterVec
	sseClientsActive    prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutoring_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tutoring_http_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		bookingEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutoring_booking_events_total",
			Help: "Total booking workflow transitions by outcome.",
		}, []string{"event"})

		slotConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tutoring_slot_conflicts_total",
			Help: "Total claim attempts rejected because the slot was already booked.",
		})

		notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tutoring_notifications_published_total",
			Help: "Total notifications published by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tutoring_sse_clients_active",
			Help: "Number of currently connected notification stream clients.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, bookingEventsTotal, slotConflictsTotal, notificationsTotal, sseClientsActive)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// BookingEvents exposes the workflow transition counter.
func BookingEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return bookingEventsTotal
}

// SlotConflicts exposes the double-booking rejection counter.
func SlotConflicts() prometheus.Counter {
	RegisterMetrics()
	return slotConflictsTotal
}

// NotificationsPublished exposes the notification counter.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsTotal
}

// SSEClientsActive exposes the connected stream client gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
