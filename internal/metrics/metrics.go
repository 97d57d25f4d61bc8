package metrics

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run counters. Updated by the deletion consumer regardless of whether the
// /metrics server is enabled.
var (
	FilesRemovedTotal prometheus.Counter
	DirsRemovedTotal  prometheus.Counter
	BytesFreedTotal   prometheus.Counter
	ErrorsTotal       prometheus.Counter
)

var (
	initOnce    sync.Once
	serverMutex sync.Mutex
	currentSrv  *http.Server
)

// Init initializes and registers all counters with Prometheus.
// Safe to call multiple times.
func Init() {
	initOnce.Do(func() {
		FilesRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rmrfp_files_removed_total",
			Help: "Total number of files and symlinks removed.",
		})
		DirsRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rmrfp_dirs_removed_total",
			Help: "Total number of directories removed.",
		})
		BytesFreedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rmrfp_bytes_freed_total",
			Help: "Total bytes freed.",
		})
		ErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rmrfp_errors_total",
			Help: "Total per-item errors encountered.",
		})

		prometheus.MustRegister(FilesRemovedTotal, DirsRemovedTotal, BytesFreedTotal, ErrorsTotal)
	})
}

// StartServer starts the metrics HTTP server exposing /metrics on addr.
func StartServer(addr string, logger *log.Logger) {
	serverMutex.Lock()
	defer serverMutex.Unlock()

	if currentSrv != nil {
		logger.Printf("metrics server already running on %s", currentSrv.Addr)
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	currentSrv = srv

	go func() {
		logger.Printf("metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("metrics server error: %v", err)
		}
	}()

	// Give server 100ms to start
	time.Sleep(100 * time.Millisecond)
}

// Shutdown gracefully shuts down the metrics server.
func Shutdown(ctx context.Context, logger *log.Logger) {
	serverMutex.Lock()
	defer serverMutex.Unlock()

	if currentSrv == nil {
		return
	}
	if err := currentSrv.Shutdown(ctx); err != nil {
		logger.Printf("metrics server shutdown error: %v", err)
	}
	currentSrv = nil
}
