// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var ReactionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reactbot_reactions_total",
	Help: "Reaction add attempts by outcome",
}, []string{"result"})

var ShadowReplies = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reactbot_shadow_replies_total",
	Help: "Shadow reply lifecycle events",
}, []string{"event"})

var ShadowsTracked = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "reactbot_shadow_replies_tracked",
	Help: "Shadow replies currently linked to an origin message",
})

var CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reactbot_commands_total",
	Help: "Chat commands handled by name and outcome",
}, []string{"command", "result"})

var SnapshotSaves = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reactbot_snapshot_saves_total",
	Help: "Snapshot writes by result",
}, []string{"result"})

var PurgedMessages = promauto.NewCounter(prometheus.CounterOpts{
	Name: "reactbot_purged_messages_total",
	Help: "Messages removed by purge commands",
})

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Metrics listener started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
