// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists participants, jury members and their scores.

# Score Records

One row per (participant, jury) pair, created lazily on the first score:

	err := st.UpsertContest(ctx, participantID, juryID, models.Contest2, 4.5)

A finalized record rejects further edits with ErrAlreadyFinalized.
Finalize is idempotent and creates a zero-valued finalized row when the
pair has no scores yet.

# Errors

  - ErrAlreadyFinalized: record is frozen
  - ErrNotFound: dangling participant or jury id
  - ErrDuplicateName, ErrDuplicateCode: jury uniqueness
  - models.ErrInvalidContest: unknown contest field

Every mutating call runs in its own transaction; a failed call leaves the
tables unchanged.

# Concurrency

Store does not serialize writers. Package gate wraps it with the single
lock that all mutations pass through.
*/
package store
