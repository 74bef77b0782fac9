// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the jury scoring service.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Gate:    g,
		Hub:     h,
		Config:  cfg,
		Metrics: m,
	})

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Read model (public):

	GET /scores      - Full snapshot for initial render
	GET /leaderboard - Ranked totals
	GET /ws          - WebSocket stream of score_update envelopes

Scoring (public, rate limited per client IP):

	POST /update_score    - Set one contest score
	POST /finalize_scores - Freeze a jury member's scores for a participant

Jury:

	GET  /jury          - Jury list without codes
	GET  /jury/{id}     - One jury profile without its code
	POST /jury/profiles - Create a jury profile

Admin (requires X-Admin-Key):

	GET    /admin/participants
	POST   /admin/participants
	DELETE /admin/participants/{id}
	POST   /admin/participants/{id}/reset
	GET    /admin/jury
	POST   /admin/jury
	DELETE /admin/jury/{id}

Every routed handler except /health and /metrics is wrapped with request
logging and the latency histogram.
*/
package router
