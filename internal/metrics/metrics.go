package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TranslationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_translation_requests_total",
			Help: "Total number of translation engine invocations",
		},
		[]string{"engine", "status"},
	)

	MessagesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_ingested_total",
			Help: "Total number of inbound chat messages processed by the pipeline",
		},
		[]string{"status"},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_message_ingest_duration_seconds",
			Help:    "Duration of the message ingestion pipeline",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_websocket_connections",
			Help: "Number of currently connected websocket clients",
		},
	)
)

// Handler returns an http.Handler for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
