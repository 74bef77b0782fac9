// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).
The wrapped writer forwards Hijack, so WebSocket routes can be logged too.

# Metrics

Record latency per route into the Prometheus histogram:

	mux.HandleFunc("GET /scores", middleware.WithMetrics(m, "/scores", handler))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
	}

An empty origin list reflects any origin. Allows methods GET, POST, PUT,
DELETE, OPTIONS with headers Content-Type, Authorization, X-Admin-Key.

# Rate Limiting

Token bucket per client IP, for mutation routes:

	rl := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	mux.HandleFunc("POST /update_score", rl.Limit(handler))

Clients over the limit get 429 with Retry-After.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse and validate JSON request bodies (go-playground/validator tags):

	var req models.UpdateScoreRequest
	if msg, err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate limiter key.
*/
package middleware
