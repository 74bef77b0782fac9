// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/jury-live/models"
)

var (
	p1 = models.Participant{ID: 1, Code: "K1", Name: "P1"}
	p2 = models.Participant{ID: 2, Code: "K2", Name: "P2"}
	p3 = models.Participant{ID: 3, Code: "K3", Name: "P3"}
	j1 = models.JuryMember{ID: 1, Name: "J1"}
	j2 = models.JuryMember{ID: 2, Name: "J2"}
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name    string
		records []models.ScoreRecord
		want    map[int64]float64
	}{
		{
			name:    "no records",
			records: nil,
			want:    map[int64]float64{1: 0, 2: 0},
		},
		{
			name: "sums across contests and jury",
			records: []models.ScoreRecord{
				{ParticipantID: 1, JuryID: 1, Contest1: 5, Contest2: 4, Contest3: 3},
				{ParticipantID: 1, JuryID: 2, Contest1: 0.5, Contest2: 0.25},
				{ParticipantID: 2, JuryID: 1, Contest1: 1},
			},
			want: map[int64]float64{1: 12.75, 2: 1},
		},
		{
			name: "unknown participant ignored",
			records: []models.ScoreRecord{
				{ParticipantID: 9, JuryID: 1, Contest1: 5},
				{ParticipantID: 2, JuryID: 1, Contest3: 2},
			},
			want: map[int64]float64{1: 0, 2: 2},
		},
		{
			name: "finalized records still count",
			records: []models.ScoreRecord{
				{ParticipantID: 1, JuryID: 1, Contest1: 3, Finalized: true},
			},
			want: map[int64]float64{1: 3, 2: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals([]models.Participant{p1, p2}, tt.records)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeLeaderboard_Descending(t *testing.T) {
	totals := map[int64]float64{1: 3, 2: 14, 3: 7}

	got := ComputeLeaderboard(totals, []models.Participant{p1, p2, p3})

	assert.Equal(t, []models.LeaderboardEntry{
		{Name: "P2", Total: 14},
		{Name: "P3", Total: 7},
		{Name: "P1", Total: 3},
	}, got)
}

func TestComputeLeaderboard_TiesKeepParticipantOrder(t *testing.T) {
	totals := map[int64]float64{1: 5, 2: 9, 3: 5}

	got := ComputeLeaderboard(totals, []models.Participant{p1, p2, p3})

	require.Len(t, got, 3)
	assert.Equal(t, "P2", got[0].Name)
	assert.Equal(t, "P1", got[1].Name)
	assert.Equal(t, "P3", got[2].Name)
}

func TestComputeLeaderboard_AllZero(t *testing.T) {
	got := ComputeLeaderboard(map[int64]float64{}, []models.Participant{p1, p2, p3})

	assert.Equal(t, []models.LeaderboardEntry{
		{Name: "P1"}, {Name: "P2"}, {Name: "P3"},
	}, got)
}

func TestBuildScoreMatrix_ZeroFills(t *testing.T) {
	records := []models.ScoreRecord{
		{ParticipantID: 1, JuryID: 2, Contest2: 4, Finalized: true},
		{ParticipantID: 5, JuryID: 1, Contest1: 1},
		{ParticipantID: 2, JuryID: 8, Contest1: 1},
	}

	got := BuildScoreMatrix([]models.Participant{p1, p2}, []models.JuryMember{j1, j2}, records)

	assert.Equal(t, models.ScoreMatrix{
		1: {
			1: {},
			2: {Contest2: 4, Finalized: true},
		},
		2: {
			1: {},
			2: {},
		},
	}, got)
}

func TestBuildSnapshot_Scenario(t *testing.T) {
	records := []models.ScoreRecord{
		{ParticipantID: 1, JuryID: 1, Contest1: 5, Contest2: 4, Contest3: 3},
		{ParticipantID: 2, JuryID: 1, Contest1: 1},
	}

	snap := BuildSnapshot([]models.Participant{p1, p2}, []models.JuryMember{j1}, records)

	assert.Equal(t, map[int64]float64{1: 12, 2: 1}, snap.Totals)
	assert.Equal(t, []models.LeaderboardEntry{
		{Name: "P1", Total: 12},
		{Name: "P2", Total: 1},
	}, snap.Leaderboard)
	assert.Equal(t, []models.JuryRef{{ID: 1, Name: "J1"}}, snap.JuryList)
	assert.Equal(t, []models.Participant{p1, p2}, snap.Participants)
	assert.Equal(t, 5.0, snap.Scores[1][1].Contest1)
}

func TestBuildSnapshot_Empty(t *testing.T) {
	snap := BuildSnapshot([]models.Participant{}, []models.JuryMember{}, nil)

	assert.Empty(t, snap.Totals)
	assert.Empty(t, snap.Leaderboard)
	assert.NotNil(t, snap.Scores)
	assert.NotNil(t, snap.JuryList)
}
