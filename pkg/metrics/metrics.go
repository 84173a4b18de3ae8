package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"exchange", "routing_key", "status"},
	)

	RabbitMQMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_consumed_total",
			Help: "Total number of messages consumed from RabbitMQ",
		},
		[]string{"queue", "status"},
	)

	// Business metrics
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_assignments_total",
			Help: "Assignment attempts by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_settlements_total",
			Help: "Settlement attempts by version and outcome",
		},
		[]string{"version", "outcome"},
	)

	ReconciliationRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_reconciliation_repairs_total",
			Help: "Entities repaired by reconciliation jobs",
		},
		[]string{"job"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_job_duration_seconds",
			Help:    "Scheduled job run duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"job", "status"},
	)

	TelemetryAnomalies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_telemetry_anomalies_total",
			Help: "Position updates flagged as anomalous",
		},
	)

	GeofenceAlerts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_geofence_alerts_total",
			Help: "Geofence zone matches raised",
		},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(exchange, key string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(exchange, key, status(err)).Inc()
}

// RecordRabbitMQConsume records RabbitMQ consume metrics
func RecordRabbitMQConsume(queue string, err error) {
	RabbitMQMessagesConsumed.WithLabelValues(queue, status(err)).Inc()
}

// RecordAssignment counts one assignment attempt.
func RecordAssignment(mode, outcome string) {
	AssignmentsTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordSettlement counts one settlement attempt.
func RecordSettlement(version, outcome string) {
	SettlementsTotal.WithLabelValues(version, outcome).Inc()
}

// RecordRepairs adds n repaired entities for job.
func RecordRepairs(job string, n int) {
	if n > 0 {
		ReconciliationRepairs.WithLabelValues(job).Add(float64(n))
	}
}

// RecordJob observes the duration of one scheduled job run.
func RecordJob(job string, err error, duration time.Duration) {
	JobDuration.WithLabelValues(job, status(err)).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
