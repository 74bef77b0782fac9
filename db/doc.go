// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connecting

Open selects the driver from the database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - postgres: github.com/lib/pq
  - sqlite: modernc.org/sqlite (pure Go), single connection, WAL and
    foreign keys enabled

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - participant: id, code, name
  - jury: id, unique name, unique access code
  - score: one row per (participant, jury) with three contest values in
    [0, 5] and a finalized flag

# Relationships

	participant 1──* score *──1 jury

Both foreign keys use ON DELETE CASCADE.

# Seeding

Seed inserts K1..Kn demo participants into an empty database:

	err := db.Seed(ctx, conn, cfg.SeedParticipants)
*/
package db
