package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus instrumentation for the ingestion server. Registration is
// package-level via promauto; the HTTP listener only starts when a
// metrics address is configured.
var (
	connectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mv77g_connections_accepted_total",
		Help: "TCP connections accepted since start.",
	})

	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mv77g_connections_active",
		Help: "Currently open device connections.",
	})

	bytesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mv77g_bytes_read_total",
		Help: "Raw bytes read from device sockets.",
	})

	framesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mv77g_location_events_total",
		Help: "Location events emitted, by wire variant.",
	}, []string{"source"})

	parseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mv77g_parse_errors_total",
		Help: "Frames that failed to decode, by error kind.",
	}, []string{"kind"})

	unhandledMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mv77g_unhandled_messages_total",
		Help: "Well-formed frames with no dispatch rule.",
	})

	responsesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mv77g_responses_written_total",
		Help: "Acknowledgement frames written to devices.",
	})
)

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("Metrics listener failed: %v", err)
	}
}
