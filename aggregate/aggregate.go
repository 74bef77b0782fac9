// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"

	"github.com/danielhkuo/jury-live/models"
)

// ComputeTotals sums contest1+contest2+contest3 across every jury record for
// each participant. Participants without records total 0; records whose
// participant is not in the list are ignored.
func ComputeTotals(participants []models.Participant, records []models.ScoreRecord) map[int64]float64 {
	totals := make(map[int64]float64, len(participants))
	for _, p := range participants {
		totals[p.ID] = 0
	}

	for _, rec := range records {
		if _, known := totals[rec.ParticipantID]; !known {
			continue
		}
		totals[rec.ParticipantID] += rec.Sum()
	}

	return totals
}

// ComputeLeaderboard ranks participants by total, highest first. Equal
// totals keep the order of participants, which callers pass ascending by id.
func ComputeLeaderboard(totals map[int64]float64, participants []models.Participant) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, len(participants))
	for i, p := range participants {
		entries[i] = models.LeaderboardEntry{Name: p.Name, Total: totals[p.ID]}
	}

	// Stable so ties keep input order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})

	return entries
}

// BuildScoreMatrix returns a cell for every (participant, jury) pair,
// zero-filled where no record exists yet.
func BuildScoreMatrix(participants []models.Participant, jury []models.JuryMember, records []models.ScoreRecord) models.ScoreMatrix {
	matrix := make(models.ScoreMatrix, len(participants))
	for _, p := range participants {
		row := make(map[int64]models.ScoreCell, len(jury))
		for _, j := range jury {
			row[j.ID] = models.ScoreCell{}
		}
		matrix[p.ID] = row
	}

	for _, rec := range records {
		row, ok := matrix[rec.ParticipantID]
		if !ok {
			continue
		}
		if _, ok := row[rec.JuryID]; !ok {
			continue
		}
		row[rec.JuryID] = models.ScoreCell{
			Contest1:  rec.Contest1,
			Contest2:  rec.Contest2,
			Contest3:  rec.Contest3,
			Finalized: rec.Finalized,
		}
	}

	return matrix
}

// BuildSnapshot assembles the full read model from one consistent read of
// the store.
func BuildSnapshot(participants []models.Participant, jury []models.JuryMember, records []models.ScoreRecord) models.Snapshot {
	totals := ComputeTotals(participants, records)

	juryList := make([]models.JuryRef, len(jury))
	for i, j := range jury {
		juryList[i] = models.JuryRef{ID: j.ID, Name: j.Name}
	}

	return models.Snapshot{
		Participants: participants,
		JuryList:     juryList,
		Scores:       BuildScoreMatrix(participants, jury, records),
		Totals:       totals,
		Leaderboard:  ComputeLeaderboard(totals, participants),
	}
}
