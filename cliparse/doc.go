// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file/DSN or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKey: Shared secret for admin endpoints (required)
  - SeedParticipants: Demo participants inserted into an empty database
  - SubscriberBuffer: Queued live updates per subscriber before eviction (default: 16)
  - WriteTimeout: Live channel write deadline (default: 5s)
  - RateLimit, RateBurst: Per-client token bucket on mutations (default: 10/s, 20)
  - AllowedOrigins: WebSocket origins; empty allows any

# CLI Flags

	-c                 YAML config file
	-p                 Server port
	-d                 Database URL
	-t                 Database type
	--admin-key        Admin key
	--seed             Demo participants
	--subscriber-buffer
	--write-timeout
	--rate-limit, --rate-burst
	--origins          Comma separated origins

# Environment Variables

Flags fall back to environment variables, which may also come from a .env
file in the working directory:

	PORT, DATABASE_URL, DATABASE_TYPE, ADMIN_KEY, CONFIG_FILE,
	SEED_PARTICIPANTS, SUBSCRIBER_BUFFER, WRITE_TIMEOUT,
	RATE_LIMIT, RATE_BURST, ALLOWED_ORIGINS

CLI flags take precedence over environment variables, which take
precedence over the YAML file.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
