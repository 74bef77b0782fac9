// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/jury-live/metrics"
	"github.com/danielhkuo/jury-live/models"
	"github.com/danielhkuo/jury-live/store"
	"github.com/danielhkuo/jury-live/testutil"
)

// recordingPublisher keeps every published snapshot in order.
type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []models.Snapshot
}

func (p *recordingPublisher) Publish(s models.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, s)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

func (p *recordingPublisher) last() models.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshots[len(p.snapshots)-1]
}

// failingStore wraps a real store and fails selected calls.
type failingStore struct {
	*store.Store
	upsertErr  error
	listAllErr error
}

func (f *failingStore) UpsertContest(ctx context.Context, p, j int64, field models.ContestField, v float64) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.Store.UpsertContest(ctx, p, j, field, v)
}

func (f *failingStore) ListAll(ctx context.Context) ([]models.ScoreRecord, error) {
	if f.listAllErr != nil {
		return nil, f.listAllErr
	}
	return f.Store.ListAll(ctx)
}

type fixture struct {
	gate  *Gate
	store *store.Store
	conn  *sql.DB
	pub   *recordingPublisher
}

// newFixture seeds participants P1, P2 and jury J1.
func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestParticipant(t, conn, 1, "P1")
	testutil.CreateTestParticipant(t, conn, 2, "P2")
	testutil.CreateTestJury(t, conn, 1, "J1")

	st := store.New(conn)
	pub := &recordingPublisher{}
	g := New(st, pub, nil, metrics.New(prometheus.NewRegistry()), noop.NewTracerProvider().Tracer("test"))
	return fixture{gate: g, store: st, conn: conn, pub: pub}
}

func TestSubmitScore_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, contest := range models.ContestFields {
		require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, contest.String(), 2.5))
	}
	require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, "contest2", 4))

	rec, ok, err := f.store.Get(ctx, 1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.5, rec.Contest1)
	assert.Equal(t, 4.0, rec.Contest2)
	assert.Equal(t, 2.5, rec.Contest3)
}

func TestSubmitScore_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr error
	}{
		{"lower bound", 0, nil},
		{"upper bound", 5, nil},
		{"fractional", 3.75, nil},
		{"below", -0.01, ErrOutOfRange},
		{"above", 5.01, ErrOutOfRange},
		{"six", 6, ErrOutOfRange},
		{"nan", math.NaN(), ErrOutOfRange},
		{"infinity", math.Inf(1), ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.gate.SubmitScore(context.Background(), 1, 1, "contest1", tt.value)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, 1, f.pub.count())
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, 0, testutil.CountScores(t, f.conn))
			assert.Equal(t, 0, f.pub.count())
		})
	}
}

func TestSubmitScore_InvalidContest(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"", "contest4", "contest1; DROP TABLE score", "Contest1"} {
		err := f.gate.SubmitScore(context.Background(), 1, 1, name, 1)
		assert.True(t, errors.Is(err, models.ErrInvalidContest), "contest %q: got %v", name, err)
	}

	assert.Equal(t, 0, testutil.CountScores(t, f.conn))
	assert.Equal(t, 0, f.pub.count())
}

func TestScenario_TotalsAndLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, "contest1", 5))
	require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, "contest2", 4))
	require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, "contest3", 3))
	require.NoError(t, f.gate.SubmitScore(ctx, 2, 1, "contest1", 1))

	snap, err := f.gate.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 12.0, snap.Totals[1])
	assert.Equal(t, 1.0, snap.Totals[2])
	assert.Equal(t, []models.LeaderboardEntry{
		{Name: "P1", Total: 12},
		{Name: "P2", Total: 1},
	}, snap.Leaderboard)

	assert.Equal(t, 4, f.pub.count())
	assert.Equal(t, snap, f.pub.last())
}

func TestScenario_OutOfRangeLeavesFreshStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.gate.SubmitScore(ctx, 1, 1, "contest1", 6)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	snap, err := f.gate.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap.Totals[1])
	assert.Equal(t, 0, f.pub.count())
}

func TestScenario_FinalizeFreezes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, "contest1", 5))
	require.NoError(t, f.gate.Finalize(ctx, 1, 1))

	err := f.gate.SubmitScore(ctx, 1, 1, "contest1", 0)
	assert.True(t, errors.Is(err, store.ErrAlreadyFinalized))

	rec, _, err := f.store.Get(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, rec.Contest1)

	// submit + finalize published; the rejected submit did not
	assert.Equal(t, 2, f.pub.count())
	assert.True(t, f.pub.last().Scores[1][1].Finalized)
}

func TestFinalize_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, "contest3", 2))
	require.NoError(t, f.gate.Finalize(ctx, 1, 1))
	once, err := f.gate.Snapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, f.gate.Finalize(ctx, 1, 1))
	twice, err := f.gate.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestFinalize_AbsentPairRejectsLaterScores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.gate.Finalize(ctx, 2, 1))

	err := f.gate.SubmitScore(ctx, 2, 1, "contest2", 3)
	assert.True(t, errors.Is(err, store.ErrAlreadyFinalized))

	snap, err := f.gate.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ScoreCell{Finalized: true}, snap.Scores[2][1])
}

func TestSubmitScore_DanglingIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, errors.Is(f.gate.SubmitScore(ctx, 99, 1, "contest1", 1), store.ErrNotFound))
	assert.True(t, errors.Is(f.gate.SubmitScore(ctx, 1, 99, "contest1", 1), store.ErrNotFound))
	assert.True(t, errors.Is(f.gate.Finalize(ctx, 99, 99), store.ErrNotFound))
	assert.Equal(t, 0, f.pub.count())
}

func TestSubmitScore_PersistenceFailure(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestParticipant(t, conn, 1, "P1")
	testutil.CreateTestJury(t, conn, 1, "J1")

	fs := &failingStore{Store: store.New(conn), upsertErr: errors.New("disk full")}
	pub := &recordingPublisher{}
	g := New(fs, pub, nil, nil, nil)

	err := g.SubmitScore(context.Background(), 1, 1, "contest1", 3)
	require.Error(t, err)
	assert.False(t, IsRejection(err))
	assert.Equal(t, 0, pub.count())
	assert.Equal(t, 0, testutil.CountScores(t, conn))
}

func TestSubmitScore_SnapshotFailureStillCommits(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestParticipant(t, conn, 1, "P1")
	testutil.CreateTestJury(t, conn, 1, "J1")

	fs := &failingStore{Store: store.New(conn), listAllErr: errors.New("read failed")}
	pub := &recordingPublisher{}
	g := New(fs, pub, nil, nil, nil)

	require.NoError(t, g.SubmitScore(context.Background(), 1, 1, "contest1", 3))
	assert.Equal(t, 0, pub.count())
	assert.Equal(t, 1, testutil.CountScores(t, conn))
}

func TestSubmitScore_CanceledContextStillCompletes(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, f.gate.SubmitScore(ctx, 1, 1, "contest1", 4))

	rec, ok, err := f.store.Get(context.Background(), 1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.0, rec.Contest1)
}

func TestSubmitScore_ConcurrentNoLostUpdates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.CreateTestJury(t, conn, 1, "J1")

	const n = 12
	for i := int64(1); i <= n; i++ {
		testutil.CreateTestParticipant(t, conn, i, gofakeit.Name())
	}

	st := store.New(conn)
	pub := &recordingPublisher{}
	g := New(st, pub, nil, nil, nil)

	type submission struct {
		participant int64
		contest     models.ContestField
		value       float64
	}
	var subs []submission
	for i := int64(1); i <= n; i++ {
		for k, c := range models.ContestFields {
			subs = append(subs, submission{participant: i, contest: c, value: float64((int(i)+k)%6)})
		}
	}

	var eg errgroup.Group
	for _, s := range subs {
		eg.Go(func() error {
			return g.SubmitScore(context.Background(), s.participant, 1, s.contest.String(), s.value)
		})
	}

	// Readers run alongside and must always see a consistent snapshot
	for r := 0; r < 4; r++ {
		eg.Go(func() error {
			for k := 0; k < 10; k++ {
				snap, err := g.Snapshot(context.Background())
				if err != nil {
					return err
				}
				for id, row := range snap.Scores {
					var sum float64
					for _, cell := range row {
						sum += cell.Contest1 + cell.Contest2 + cell.Contest3
					}
					if sum != snap.Totals[id] {
						return fmt.Errorf("participant %d: cells sum %v, total %v", id, sum, snap.Totals[id])
					}
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	records, err := st.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, n)

	for _, s := range subs {
		rec, ok, err := st.Get(context.Background(), s.participant, 1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, s.value, rec.Value(s.contest), "participant %d %s", s.participant, s.contest)
	}

	assert.Equal(t, len(subs), pub.count())
}

func TestRosterMutations_Publish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.gate.AddParticipant(ctx, "K3", "P3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)

	j, err := f.gate.AddJury(ctx, "J2")
	require.NoError(t, err)
	assert.Len(t, j.Code, 4)

	require.NoError(t, f.gate.SubmitScore(ctx, p.ID, j.ID, "contest1", 5))
	require.NoError(t, f.gate.Finalize(ctx, p.ID, j.ID))
	require.NoError(t, f.gate.ResetParticipant(ctx, p.ID))

	snap := f.pub.last()
	assert.Equal(t, models.ScoreCell{}, snap.Scores[p.ID][j.ID])
	assert.Len(t, snap.JuryList, 2)

	require.NoError(t, f.gate.DeleteJury(ctx, j.ID))
	require.NoError(t, f.gate.DeleteParticipant(ctx, p.ID))

	snap = f.pub.last()
	assert.Len(t, snap.Participants, 2)
	assert.Len(t, snap.JuryList, 1)
	assert.NotContains(t, snap.Totals, p.ID)

	assert.Equal(t, 7, f.pub.count())
}

func TestAddJury_DuplicateName(t *testing.T) {
	f := newFixture(t)

	_, err := f.gate.AddJury(context.Background(), "J1")
	assert.True(t, errors.Is(err, store.ErrDuplicateName))
	assert.True(t, IsRejection(err))
	assert.Equal(t, 0, f.pub.count())
}

func TestRosterMutations_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.True(t, errors.Is(f.gate.DeleteParticipant(ctx, 50), store.ErrNotFound))
	assert.True(t, errors.Is(f.gate.ResetParticipant(ctx, 50), store.ErrNotFound))
	assert.True(t, errors.Is(f.gate.DeleteJury(ctx, 50), store.ErrNotFound))
	assert.Equal(t, 0, f.pub.count())
}

func TestGetJury(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.gate.AddJury(ctx, "Marta")
	require.NoError(t, err)

	got, err := f.gate.GetJury(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = f.gate.GetJury(ctx, 999)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
