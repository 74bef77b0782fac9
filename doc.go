// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the jury-live API server.

jury-live collects per-contest scores from jury members and pushes the
recomputed score matrix, totals and leaderboard to every connected viewer
after each accepted change.

# Starting the Server

	ADMIN_KEY=secret DATABASE_URL=jury.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --admin-key secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY (--admin-key): Shared secret for /admin routes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SEED_PARTICIPANTS (--seed): Demo participants for an empty database
  - SUBSCRIBER_BUFFER, WRITE_TIMEOUT: Live channel tuning
  - RATE_LIMIT, RATE_BURST: Per-client mutation limits
  - ALLOWED_ORIGINS (--origins): CORS and WebSocket origin allow-list
  - CONFIG_FILE (-c): YAML file with any of the above

A .env file in the working directory is loaded when present.

# Architecture

  - handlers: HTTP and WebSocket handlers (scores, jury, admin, live)
  - router: Route definitions using Go 1.22+ routing
  - gate: Serializes mutations and publishes snapshots
  - hub: Live subscriber registry and fan-out
  - aggregate: Totals, leaderboard and score matrix
  - store: Score and roster persistence
  - middleware: CORS, logging, metrics, rate limiting, JSON helpers
  - metrics: Prometheus collectors
  - models: Domain, request and response types
  - auth: Admin key check and jury code generation
  - db: Connection, schema and seeding
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
