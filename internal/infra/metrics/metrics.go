package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"menu-highlights/internal/domain"
)

var (
	MutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "highlights_mutations_total",
		Help: "Schedule and configuration mutations by outcome",
	}, []string{"operation", "status"})

	ScheduledItems = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "highlights_scheduled_items",
		Help: "Scheduled items in the current week by state",
	}, []string{"state"})

	SnapshotSaveSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snapshot_save_seconds",
		Help:    "Time spent persisting a session snapshot",
		Buckets: prometheus.DefBuckets,
	})

	AnnounceSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "announce_send_errors_total",
		Help: "Failed highlight announcements",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Duration of outbound requests",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Outbound requests",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister registers every collector.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		MutationsTotal,
		ScheduledItems,
		SnapshotSaveSeconds,
		AnnounceSendErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer serves /metrics on addr until ctx is done.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest records duration and outcome of an outbound call.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveMutation counts a mutation; rejected ones are labelled by error code.
func ObserveMutation(operation string, err error) {
	status := "success"
	if err != nil {
		status = domain.ErrorCode(err)
	}
	MutationsTotal.WithLabelValues(operation, status).Inc()
}

// SetScheduledItems publishes active and inactive item counts.
func SetScheduledItems(active, total int) {
	ScheduledItems.WithLabelValues("active").Set(float64(active))
	ScheduledItems.WithLabelValues("inactive").Set(float64(total - active))
}

// ObserveSnapshotSave records how long a snapshot save took.
func ObserveSnapshotSave(start time.Time) {
	SnapshotSaveSeconds.Observe(time.Since(start).Seconds())
}
