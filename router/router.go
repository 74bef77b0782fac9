// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/jury-live/cliparse"
	"github.com/danielhkuo/jury-live/gate"
	"github.com/danielhkuo/jury-live/handlers"
	"github.com/danielhkuo/jury-live/hub"
	"github.com/danielhkuo/jury-live/metrics"
	"github.com/danielhkuo/jury-live/middleware"
)

// Deps are the components the routes are wired to.
type Deps struct {
	Gate    *gate.Gate
	Hub     *hub.Hub
	Config  cliparse.Config
	Metrics *metrics.Metrics

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	scoreHandler := handlers.NewScoreHandler(deps.Gate)
	juryHandler := handlers.NewJuryHandler(deps.Gate)
	adminHandler := handlers.NewAdminHandler(deps.Gate, deps.Config)
	liveHandler := handlers.NewLiveHandler(deps.Hub, deps.Config)

	limiter := middleware.NewRateLimiter(deps.Config.RateLimit, deps.Config.RateBurst)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	handle := func(pattern, route string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(deps.Metrics, route, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Read model (public)
	handle("GET /scores", "/scores", scoreHandler.GetScores)
	handle("GET /leaderboard", "/leaderboard", scoreHandler.GetLeaderboard)
	handle("GET /ws", "/ws", liveHandler.Serve)

	// Score mutations (public, rate limited)
	handle("POST /update_score", "/update_score", limiter.Limit(scoreHandler.UpdateScore))
	handle("POST /finalize_scores", "/finalize_scores", limiter.Limit(scoreHandler.FinalizeScores))

	// Jury profiles
	handle("GET /jury", "/jury", juryHandler.List)
	handle("GET /jury/{id}", "/jury/{id}", juryHandler.Get)
	handle("POST /jury/profiles", "/jury/profiles", limiter.Limit(juryHandler.CreateProfile))

	// Admin operations (requires X-Admin-Key)
	admin := adminHandler.RequireAdmin
	handle("GET /admin/participants", "/admin/participants", admin(adminHandler.ListParticipants))
	handle("POST /admin/participants", "/admin/participants", admin(adminHandler.AddParticipant))
	handle("DELETE /admin/participants/{id}", "/admin/participants/{id}", admin(adminHandler.DeleteParticipant))
	handle("POST /admin/participants/{id}/reset", "/admin/participants/{id}/reset", admin(adminHandler.ResetParticipant))
	handle("GET /admin/jury", "/admin/jury", admin(adminHandler.ListJury))
	handle("POST /admin/jury", "/admin/jury", admin(adminHandler.AddJury))
	handle("DELETE /admin/jury/{id}", "/admin/jury/{id}", admin(adminHandler.DeleteJury))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jury-live API v1"))
	})

	return mux
}
