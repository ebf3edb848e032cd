// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the prometheus collectors shared by the
// generation pipeline and the optional /metrics endpoint that exposes them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// LLMCalls counts generative API attempts by output mode and outcome
	// (ok, client_error, upstream_error, transport_error, schema_mismatch).
	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gptgen_llm_calls_total",
			Help: "Total number of generative API attempts",
		},
		[]string{"mode", "outcome"},
	)

	ArticlesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gptgen_articles_generated_total",
			Help: "Total number of articles returned by the orchestrator",
		},
		[]string{"lang", "regenerated"},
	)

	IdeasAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gptgen_ideas_added_total",
			Help: "Total number of idea records added to a pool",
		},
		[]string{"lang"},
	)

	SeedIterations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gptgen_seed_iterations_total",
			Help: "Total number of seeding loop iterations",
		},
		[]string{"lang"},
	)

	ReferenceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gptgen_reference_lookups_total",
			Help: "Total number of reference lookups by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)

// Serve exposes the default registry on addr until ctx is cancelled.
// An empty addr is a no-op.
func Serve(ctx context.Context, addr string, logger *zap.Logger) {
	if addr == "" {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logger.Info("metrics endpoint listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics endpoint stopped", zap.Error(err))
		}
	}()
}
