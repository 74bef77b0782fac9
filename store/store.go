// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/jury-live/models"
)

var (
	// ErrAlreadyFinalized indicates the (participant, jury) record is frozen.
	ErrAlreadyFinalized = errors.New("scores already finalized")

	// ErrNotFound indicates a referenced participant or jury member does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName indicates another jury member already uses the name.
	ErrDuplicateName = errors.New("name already taken")

	// ErrDuplicateCode indicates another jury member already holds the access code.
	ErrDuplicateCode = errors.New("code already taken")
)

// Store is the SQL-backed score store. It is not safe for concurrent
// writers on its own; callers serialize mutations (see package gate).
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// contestQueries returns the insert and update statements for one contest
// column. The column is chosen from a closed set, never from caller input.
func contestQueries(field models.ContestField) (insert, update string, err error) {
	switch field {
	case models.Contest1:
		return `INSERT INTO score (participant_id, jury_id, contest1) VALUES ($1, $2, $3)`,
			`UPDATE score SET contest1 = $1 WHERE participant_id = $2 AND jury_id = $3`, nil
	case models.Contest2:
		return `INSERT INTO score (participant_id, jury_id, contest2) VALUES ($1, $2, $3)`,
			`UPDATE score SET contest2 = $1 WHERE participant_id = $2 AND jury_id = $3`, nil
	case models.Contest3:
		return `INSERT INTO score (participant_id, jury_id, contest3) VALUES ($1, $2, $3)`,
			`UPDATE score SET contest3 = $1 WHERE participant_id = $2 AND jury_id = $3`, nil
	default:
		return "", "", fmt.Errorf("%w: %v", models.ErrInvalidContest, field)
	}
}

// Get returns the record for a pair. ok is false when no record exists.
func (s *Store) Get(ctx context.Context, participantID, juryID int64) (rec models.ScoreRecord, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT participant_id, jury_id, contest1, contest2, contest3, finalized
		FROM score
		WHERE participant_id = $1 AND jury_id = $2
	`, participantID, juryID).Scan(
		&rec.ParticipantID, &rec.JuryID, &rec.Contest1, &rec.Contest2, &rec.Contest3, &rec.Finalized,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScoreRecord{}, false, nil
	}
	if err != nil {
		return models.ScoreRecord{}, false, fmt.Errorf("failed to query score: %w", err)
	}
	return rec, true, nil
}

// UpsertContest sets one contest value for a pair, creating the record
// with the other contests at 0 when absent. Fails with ErrAlreadyFinalized
// if the record is frozen.
func (s *Store) UpsertContest(ctx context.Context, participantID, juryID int64, field models.ContestField, value float64) error {
	insertQuery, updateQuery, err := contestQueries(field)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkRefs(ctx, tx, participantID, juryID); err != nil {
		return err
	}

	var finalized bool
	err = tx.QueryRowContext(ctx, `
		SELECT finalized FROM score WHERE participant_id = $1 AND jury_id = $2
	`, participantID, juryID).Scan(&finalized)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, insertQuery, participantID, juryID, value); err != nil {
			return fmt.Errorf("failed to insert score: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to query score: %w", err)
	case finalized:
		return ErrAlreadyFinalized
	default:
		if _, err := tx.ExecContext(ctx, updateQuery, value, participantID, juryID); err != nil {
			return fmt.Errorf("failed to update score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit score: %w", err)
	}
	return nil
}

// Finalize freezes a pair. Idempotent; an absent record is materialized
// as a zero-valued finalized row so later submissions are rejected.
func (s *Store) Finalize(ctx context.Context, participantID, juryID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkRefs(ctx, tx, participantID, juryID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO score (participant_id, jury_id, finalized)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (participant_id, jury_id) DO UPDATE SET finalized = TRUE
	`, participantID, juryID)
	if err != nil {
		return fmt.Errorf("failed to finalize score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit finalize: %w", err)
	}
	return nil
}

// ListAll returns every score record ordered by participant, then jury.
func (s *Store) ListAll(ctx context.Context) ([]models.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT participant_id, jury_id, contest1, contest2, contest3, finalized
		FROM score
		ORDER BY participant_id, jury_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	records := []models.ScoreRecord{}
	for rows.Next() {
		var rec models.ScoreRecord
		if err := rows.Scan(&rec.ParticipantID, &rec.JuryID, &rec.Contest1, &rec.Contest2, &rec.Contest3, &rec.Finalized); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}
	return records, nil
}

// checkRefs verifies both ends of a pair exist.
func checkRefs(ctx context.Context, tx *sql.Tx, participantID, juryID int64) error {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM participant WHERE id = $1)
	`, participantID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check participant: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: participant %d", ErrNotFound, participantID)
	}

	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM jury WHERE id = $1)
	`, juryID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check jury: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: jury %d", ErrNotFound, juryID)
	}
	return nil
}
