// Package metrics provides Prometheus metrics for the chat relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chat_relay"

var (
	// RequestsTotal counts HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration tracks HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// AgentRequestsTotal counts calls to the external agent.
	AgentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "requests_total",
			Help:      "Total requests forwarded to the agent",
		},
		[]string{"operation", "status"},
	)

	// AgentDuration tracks agent call latency.
	AgentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "request_duration_seconds",
			Help:      "Agent request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	// UploadsTotal counts file uploads.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "total",
			Help:      "Total file uploads",
		},
		[]string{"media_type", "status"},
	)

	// UploadBytesTotal counts stored bytes.
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"media_type"},
	)

	// SubmissionsTotal counts conversation submissions by outcome.
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "submissions_total",
			Help:      "Conversation submissions by outcome",
		},
		[]string{"outcome"},
	)

	// ActiveConversations tracks hosted conversations currently held in memory.
	ActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "conversation",
			Name:      "active",
			Help:      "Number of hosted conversations in memory",
		},
	)
)

// Submission outcomes.
const (
	OutcomeAnswered     = "answered"
	OutcomeFallback     = "fallback"
	OutcomeUploadFailed = "upload_failed"
	OutcomeRejected     = "rejected"
)

// RecordRequest records an HTTP request.
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordAgentRequest records a call to the agent.
func RecordAgentRequest(operation, status string, durationSec float64) {
	AgentRequestsTotal.WithLabelValues(operation, status).Inc()
	AgentDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordUpload records a file upload.
func RecordUpload(mediaType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(mediaType, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(mediaType).Add(float64(bytes))
	}
}

// RecordSubmission records a conversation submission outcome.
func RecordSubmission(outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordConversationCreated increments the active conversation gauge.
func RecordConversationCreated() {
	ActiveConversations.Inc()
}

// RecordConversationDeleted decrements the active conversation gauge.
func RecordConversationDeleted() {
	ActiveConversations.Dec()
}
