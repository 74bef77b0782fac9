// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package gate serializes every score and roster mutation.

	g := gate.New(store.New(conn), hub, logger, metrics, tracer)
	err := g.SubmitScore(ctx, participantID, juryID, "contest1", 4.5)

# Ordering

One sync.RWMutex guards the store. A mutation holds the write lock while
it applies the change, rebuilds the snapshot and hands it to the
publisher, so subscribers see updates in the order they were applied.
Snapshot takes the read lock and therefore sees either the full state
before or after any mutation.

# Errors

  - ErrOutOfRange: score outside [0, 5] or NaN
  - models.ErrInvalidContest: unknown contest name
  - store.ErrAlreadyFinalized, store.ErrNotFound: from the store

Validation failures never reach the store and never publish. Exactly one
publish follows each successful mutation.
*/
package gate
