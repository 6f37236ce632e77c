// Package telemetry holds the process-level Prometheus metrics for the dump
// pipeline. Counters are cheap to bump from hot paths and are exported only
// when a metrics address is configured; otherwise they are plain in-process
// counters that nothing scrapes.
package telemetry

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesFlushed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "navtrace_frames_flushed_total",
		Help: "Total full dump frames handed to a flush sink",
	})
	BytesAppended = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "navtrace_bytes_appended_total",
		Help: "Total bytes copied into dump buffers",
	})
	AppendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "navtrace_append_errors_total",
		Help: "Total Append calls rejected for a corrupted fill cursor",
	})
	FramesStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "navtrace_frames_stored_total",
		Help: "Total dump frames fanned out to all configured writers",
	})
)

func init() {
	prometheus.MustRegister(FramesFlushed, BytesAppended, AppendErrors, FramesStored)
}

// Serve exposes /metrics on addr in a background goroutine. An empty addr
// disables the endpoint.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("Metrics endpoint listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("Metrics endpoint stopped: %v", err)
		}
	}()
}
