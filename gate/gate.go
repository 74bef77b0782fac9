// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/danielhkuo/jury-live/aggregate"
	"github.com/danielhkuo/jury-live/auth"
	"github.com/danielhkuo/jury-live/metrics"
	"github.com/danielhkuo/jury-live/models"
	"github.com/danielhkuo/jury-live/store"
)

// ErrOutOfRange indicates a score outside [models.MinScore, models.MaxScore].
var ErrOutOfRange = errors.New("score out of range")

// maxCodeAttempts bounds jury code regeneration on collision.
const maxCodeAttempts = 32

// Operation names used for spans and metrics
const (
	OpSubmitScore       = "submit_score"
	OpFinalize          = "finalize"
	OpAddParticipant    = "add_participant"
	OpDeleteParticipant = "delete_participant"
	OpResetParticipant  = "reset_participant"
	OpAddJury           = "add_jury"
	OpDeleteJury        = "delete_jury"
)

// Store is the persistence the gate serializes access to.
type Store interface {
	UpsertContest(ctx context.Context, participantID, juryID int64, field models.ContestField, value float64) error
	Finalize(ctx context.Context, participantID, juryID int64) error
	ListAll(ctx context.Context) ([]models.ScoreRecord, error)

	ListParticipants(ctx context.Context) ([]models.Participant, error)
	AddParticipant(ctx context.Context, code, name string) (models.Participant, error)
	DeleteParticipant(ctx context.Context, id int64) error
	ResetParticipant(ctx context.Context, id int64) error

	ListJury(ctx context.Context) ([]models.JuryMember, error)
	GetJury(ctx context.Context, id int64) (models.JuryMember, error)
	AddJury(ctx context.Context, name, code string) (models.JuryMember, error)
	DeleteJury(ctx context.Context, id int64) error
}

// Publisher receives the snapshot after each successful mutation.
type Publisher interface {
	Publish(snapshot models.Snapshot)
}

// Gate is the single path for every mutation. Mutations hold the write
// lock through apply, snapshot and publish, so broadcasts leave in
// mutation order. Snapshot holds the read lock.
type Gate struct {
	mu sync.RWMutex

	store   Store
	pub     Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func New(st Store, pub Publisher, logger *slog.Logger, m *metrics.Metrics, tracer trace.Tracer) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("gate")
	}
	return &Gate{
		store:   st,
		pub:     pub,
		logger:  logger,
		metrics: m,
		tracer:  tracer,
	}
}

// SubmitScore sets one contest score for a (participant, jury) pair.
// Range and contest name are checked before the store is touched.
func (g *Gate) SubmitScore(ctx context.Context, participantID, juryID int64, contest string, value float64) error {
	ctx, span := g.tracer.Start(ctx, "gate.SubmitScore", trace.WithAttributes(
		attribute.Int64("participant_id", participantID),
		attribute.Int64("jury_id", juryID),
		attribute.String("contest", contest),
		attribute.Float64("score", value),
	))
	defer span.End()

	if math.IsNaN(value) || value < models.MinScore || value > models.MaxScore {
		return g.fail(ctx, span, OpSubmitScore, fmt.Errorf("%w: %v", ErrOutOfRange, value))
	}

	field, err := models.ParseContestField(contest)
	if err != nil {
		return g.fail(ctx, span, OpSubmitScore, err)
	}

	return g.mutate(ctx, span, OpSubmitScore, func(ctx context.Context) error {
		return g.store.UpsertContest(ctx, participantID, juryID, field, value)
	})
}

// Finalize freezes a (participant, jury) pair. Idempotent.
func (g *Gate) Finalize(ctx context.Context, participantID, juryID int64) error {
	ctx, span := g.tracer.Start(ctx, "gate.Finalize", trace.WithAttributes(
		attribute.Int64("participant_id", participantID),
		attribute.Int64("jury_id", juryID),
	))
	defer span.End()

	return g.mutate(ctx, span, OpFinalize, func(ctx context.Context) error {
		return g.store.Finalize(ctx, participantID, juryID)
	})
}

func (g *Gate) AddParticipant(ctx context.Context, code, name string) (models.Participant, error) {
	ctx, span := g.tracer.Start(ctx, "gate.AddParticipant", trace.WithAttributes(
		attribute.String("code", code),
	))
	defer span.End()

	var p models.Participant
	err := g.mutate(ctx, span, OpAddParticipant, func(ctx context.Context) error {
		var err error
		p, err = g.store.AddParticipant(ctx, code, name)
		return err
	})
	return p, err
}

// DeleteParticipant removes a participant together with all its scores.
func (g *Gate) DeleteParticipant(ctx context.Context, id int64) error {
	ctx, span := g.tracer.Start(ctx, "gate.DeleteParticipant", trace.WithAttributes(
		attribute.Int64("participant_id", id),
	))
	defer span.End()

	return g.mutate(ctx, span, OpDeleteParticipant, func(ctx context.Context) error {
		return g.store.DeleteParticipant(ctx, id)
	})
}

// ResetParticipant zeroes and unfreezes every record of a participant.
func (g *Gate) ResetParticipant(ctx context.Context, id int64) error {
	ctx, span := g.tracer.Start(ctx, "gate.ResetParticipant", trace.WithAttributes(
		attribute.Int64("participant_id", id),
	))
	defer span.End()

	return g.mutate(ctx, span, OpResetParticipant, func(ctx context.Context) error {
		return g.store.ResetParticipant(ctx, id)
	})
}

// AddJury creates a jury member with a freshly generated unique code.
func (g *Gate) AddJury(ctx context.Context, name string) (models.JuryMember, error) {
	ctx, span := g.tracer.Start(ctx, "gate.AddJury")
	defer span.End()

	var j models.JuryMember
	err := g.mutate(ctx, span, OpAddJury, func(ctx context.Context) error {
		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := auth.GenerateJuryCode()
			if err != nil {
				return err
			}
			j, err = g.store.AddJury(ctx, name, code)
			if errors.Is(err, store.ErrDuplicateCode) {
				continue
			}
			return err
		}
		return fmt.Errorf("no free jury code after %d attempts", maxCodeAttempts)
	})
	return j, err
}

// DeleteJury removes a jury member together with all its scores.
func (g *Gate) DeleteJury(ctx context.Context, id int64) error {
	ctx, span := g.tracer.Start(ctx, "gate.DeleteJury", trace.WithAttributes(
		attribute.Int64("jury_id", id),
	))
	defer span.End()

	return g.mutate(ctx, span, OpDeleteJury, func(ctx context.Context) error {
		return g.store.DeleteJury(ctx, id)
	})
}

// Snapshot returns the full read model. It never observes a half-applied
// mutation.
func (g *Gate) Snapshot(ctx context.Context) (models.Snapshot, error) {
	ctx, span := g.tracer.Start(ctx, "gate.Snapshot")
	defer span.End()

	g.mu.RLock()
	defer g.mu.RUnlock()

	snap, err := g.snapshot(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.Snapshot{}, err
	}
	return snap, nil
}

// ListJury returns the jury roster, codes included.
func (g *Gate) ListJury(ctx context.Context) ([]models.JuryMember, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.ListJury(ctx)
}

// GetJury returns one jury member, code included.
func (g *Gate) GetJury(ctx context.Context, id int64) (models.JuryMember, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.GetJury(ctx, id)
}

// ListParticipants returns the participant roster.
func (g *Gate) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store.ListParticipants(ctx)
}

// mutate runs apply under the write lock and, on success, publishes a
// snapshot before releasing it. apply ignores caller cancellation: once
// started, a mutation runs to completion.
func (g *Gate) mutate(ctx context.Context, span trace.Span, op string, apply func(context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	if err := apply(ctx); err != nil {
		return g.fail(ctx, span, op, err)
	}
	g.metrics.RecordMutation(op, metrics.OutcomeSuccess)

	snap, err := g.snapshot(ctx)
	if err != nil {
		// The write is committed; only the broadcast is lost
		g.metrics.RecordSnapshotError()
		span.RecordError(err)
		g.logger.ErrorContext(ctx, "Failed to build snapshot after mutation",
			"op", op,
			"error", err,
		)
		return nil
	}

	g.pub.Publish(snap)
	return nil
}

func (g *Gate) snapshot(ctx context.Context) (models.Snapshot, error) {
	participants, err := g.store.ListParticipants(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to list participants: %w", err)
	}
	jury, err := g.store.ListJury(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to list jury: %w", err)
	}
	records, err := g.store.ListAll(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to list scores: %w", err)
	}
	return aggregate.BuildSnapshot(participants, jury, records), nil
}

func (g *Gate) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if IsRejection(err) {
		g.metrics.RecordMutation(op, metrics.OutcomeRejected)
		g.logger.InfoContext(ctx, "Mutation rejected", "op", op, "reason", err)
		return err
	}

	g.metrics.RecordMutation(op, metrics.OutcomeError)
	g.logger.ErrorContext(ctx, "Mutation failed", "op", op, "error", err)
	return err
}

// IsRejection reports whether err is a caller-facing validation failure
// rather than a persistence fault.
func IsRejection(err error) bool {
	return errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, models.ErrInvalidContest) ||
		errors.Is(err, store.ErrAlreadyFinalized) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicateName) ||
		errors.Is(err, store.ErrDuplicateCode)
}
