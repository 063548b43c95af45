// Package telemetry registers the Prometheus metrics exposed on
// /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsReceived counts webhook deliveries by event type.
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "psdevbot_webhook_events_total",
		Help: "Webhook events received, by event type",
	}, []string{"event"})

	// SignatureRejections counts webhook deliveries rejected during
	// signature verification.
	SignatureRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psdevbot_webhook_signature_rejections_total",
		Help: "Webhook deliveries rejected by signature verification",
	})

	// DedupSuppressed counts pull request notifications dropped by the
	// dedup window.
	DedupSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psdevbot_pull_request_dedup_suppressed_total",
		Help: "Duplicate pull request notifications suppressed",
	})

	// MessagesEnqueued counts messages handed to the outbound queue.
	MessagesEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psdevbot_messages_enqueued_total",
		Help: "Messages enqueued for delivery",
	})

	// MessagesSent counts messages written to the connection.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psdevbot_messages_sent_total",
		Help: "Messages delivered over the persistent connection",
	})

	// Reconnects counts relay reconnect attempts after a connection
	// failure.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psdevbot_reconnects_total",
		Help: "Relay reconnect attempts",
	})
)
