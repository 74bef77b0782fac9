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

// ListParticipants returns all participants ordered by id.
func (s *Store) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name FROM participant ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Code, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}
	return participants, nil
}

// AddParticipant inserts a participant with the next id.
func (s *Store) AddParticipant(ctx context.Context, code, name string) (models.Participant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(ctx, tx, "participant")
	if err != nil {
		return models.Participant{}, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO participant (id, code, name) VALUES ($1, $2, $3)
	`, id, code, name)
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Participant{}, fmt.Errorf("failed to commit participant: %w", err)
	}
	return models.Participant{ID: id, Code: code, Name: name}, nil
}

// DeleteParticipant removes a participant and all of its scores.
func (s *Store) DeleteParticipant(ctx context.Context, id int64) error {
	return s.deleteWithScores(ctx, "participant", id)
}

// ResetParticipant zeroes every contest and clears finalized for all of a
// participant's records.
func (s *Store) ResetParticipant(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM participant WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check participant: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: participant %d", ErrNotFound, id)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE score
		SET contest1 = 0, contest2 = 0, contest3 = 0, finalized = FALSE
		WHERE participant_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to reset scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	return nil
}

// ListJury returns all jury members ordered by id.
func (s *Store) ListJury(ctx context.Context) ([]models.JuryMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code FROM jury ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query jury: %w", err)
	}
	defer rows.Close()

	jury := []models.JuryMember{}
	for rows.Next() {
		var j models.JuryMember
		var code sql.NullString
		if err := rows.Scan(&j.ID, &j.Name, &code); err != nil {
			return nil, fmt.Errorf("failed to scan jury: %w", err)
		}
		j.Code = code.String
		jury = append(jury, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jury: %w", err)
	}
	return jury, nil
}

// GetJury returns one jury member or ErrNotFound.
func (s *Store) GetJury(ctx context.Context, id int64) (models.JuryMember, error) {
	var j models.JuryMember
	var code sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, code FROM jury WHERE id = $1
	`, id).Scan(&j.ID, &j.Name, &code)
	if errors.Is(err, sql.ErrNoRows) {
		return models.JuryMember{}, fmt.Errorf("%w: jury %d", ErrNotFound, id)
	}
	if err != nil {
		return models.JuryMember{}, fmt.Errorf("failed to query jury: %w", err)
	}
	j.Code = code.String
	return j, nil
}

// AddJury inserts a jury member with the next id. An empty code is stored
// as NULL.
func (s *Store) AddJury(ctx context.Context, name, code string) (models.JuryMember, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.JuryMember{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var taken bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM jury WHERE name = $1)
	`, name).Scan(&taken)
	if err != nil {
		return models.JuryMember{}, fmt.Errorf("failed to check jury name: %w", err)
	}
	if taken {
		return models.JuryMember{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	codeArg := sql.NullString{String: code, Valid: code != ""}
	if codeArg.Valid {
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM jury WHERE code = $1)
		`, code).Scan(&taken)
		if err != nil {
			return models.JuryMember{}, fmt.Errorf("failed to check jury code: %w", err)
		}
		if taken {
			return models.JuryMember{}, fmt.Errorf("%w: %q", ErrDuplicateCode, code)
		}
	}

	id, err := nextID(ctx, tx, "jury")
	if err != nil {
		return models.JuryMember{}, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO jury (id, name, code) VALUES ($1, $2, $3)
	`, id, name, codeArg)
	if err != nil {
		return models.JuryMember{}, fmt.Errorf("failed to insert jury: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.JuryMember{}, fmt.Errorf("failed to commit jury: %w", err)
	}
	return models.JuryMember{ID: id, Name: name, Code: code}, nil
}

// DeleteJury removes a jury member and all of its scores.
func (s *Store) DeleteJury(ctx context.Context, id int64) error {
	return s.deleteWithScores(ctx, "jury", id)
}

// deleteWithScores deletes the scores explicitly before the owner so the
// cascade holds even where foreign keys are not enforced.
func (s *Store) deleteWithScores(ctx context.Context, table string, id int64) error {
	var scoresQuery, ownerQuery string
	switch table {
	case "participant":
		scoresQuery = `DELETE FROM score WHERE participant_id = $1`
		ownerQuery = `DELETE FROM participant WHERE id = $1`
	case "jury":
		scoresQuery = `DELETE FROM score WHERE jury_id = $1`
		ownerQuery = `DELETE FROM jury WHERE id = $1`
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, scoresQuery, id); err != nil {
		return fmt.Errorf("failed to delete %s scores: %w", table, err)
	}

	res, err := tx.ExecContext(ctx, ownerQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, table, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func nextID(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	var query string
	switch table {
	case "participant":
		query = `SELECT COALESCE(MAX(id), 0) FROM participant`
	case "jury":
		query = `SELECT COALESCE(MAX(id), 0) FROM jury`
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var maxID int64
	if err := tx.QueryRowContext(ctx, query).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", table, err)
	}
	return maxID + 1, nil
}
