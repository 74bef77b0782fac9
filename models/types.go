package models

import (
	"errors"
	"fmt"
)

// Score bounds for a single contest
const (
	MinScore = 0.0
	MaxScore = 5.0
)

// Envelope type pushed on the live channel
const (
	EnvelopeScoreUpdate = "score_update"
)

var ErrInvalidContest = errors.New("invalid contest")

// ContestField names one of the three scored categories.
type ContestField int

const (
	Contest1 ContestField = iota + 1
	Contest2
	Contest3
)

// ContestFields lists every valid contest in column order.
var ContestFields = []ContestField{Contest1, Contest2, Contest3}

// ParseContestField maps a wire name to its ContestField.
func ParseContestField(name string) (ContestField, error) {
	switch name {
	case "contest1":
		return Contest1, nil
	case "contest2":
		return Contest2, nil
	case "contest3":
		return Contest3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidContest, name)
	}
}

func (c ContestField) String() string {
	switch c {
	case Contest1:
		return "contest1"
	case Contest2:
		return "contest2"
	case Contest3:
		return "contest3"
	default:
		return fmt.Sprintf("ContestField(%d)", int(c))
	}
}

// Domain types

type Participant struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type JuryMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ScoreRecord is one jury member's scores for one participant.
type ScoreRecord struct {
	ParticipantID int64   `json:"participant_id"`
	JuryID        int64   `json:"jury_id"`
	Contest1      float64 `json:"contest1"`
	Contest2      float64 `json:"contest2"`
	Contest3      float64 `json:"contest3"`
	Finalized     bool    `json:"finalized"`
}

// Value returns the score stored for the given contest.
func (r ScoreRecord) Value(c ContestField) float64 {
	switch c {
	case Contest1:
		return r.Contest1
	case Contest2:
		return r.Contest2
	case Contest3:
		return r.Contest3
	default:
		return 0
	}
}

// Sum is contest1+contest2+contest3.
func (r ScoreRecord) Sum() float64 {
	var total float64
	for _, c := range ContestFields {
		total += r.Value(c)
	}
	return total
}

// ScoreCell is the per-(participant, jury) view sent to clients.
type ScoreCell struct {
	Contest1  float64 `json:"contest1"`
	Contest2  float64 `json:"contest2"`
	Contest3  float64 `json:"contest3"`
	Finalized bool    `json:"finalized"`
}

type LeaderboardEntry struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// JuryRef is the public part of a jury member included in broadcasts.
type JuryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ScoreMatrix maps participant id -> jury id -> cell
type ScoreMatrix map[int64]map[int64]ScoreCell

// Snapshot is the complete read model at one instant.
type Snapshot struct {
	Participants []Participant      `json:"participants"`
	JuryList     []JuryRef          `json:"jury_list"`
	Scores       ScoreMatrix        `json:"scores"`
	Totals       map[int64]float64  `json:"totals"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
}

// ScoreUpdate is the envelope pushed to every live subscriber.
type ScoreUpdate struct {
	Type        string             `json:"type"`
	Scores      ScoreMatrix        `json:"scores"`
	Totals      map[int64]float64  `json:"totals"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	JuryList    []JuryRef          `json:"jury_list"`
}

// NewScoreUpdate wraps a snapshot in the live envelope.
func NewScoreUpdate(s Snapshot) ScoreUpdate {
	return ScoreUpdate{
		Type:        EnvelopeScoreUpdate,
		Scores:      s.Scores,
		Totals:      s.Totals,
		Leaderboard: s.Leaderboard,
		JuryList:    s.JuryList,
	}
}

// Request types

type UpdateScoreRequest struct {
	ParticipantID int64    `json:"participant_id" validate:"required,gt=0"`
	JuryID        int64    `json:"jury_id" validate:"required,gt=0"`
	Contest       string   `json:"contest" validate:"required"`
	Score         *float64 `json:"score" validate:"required"`
}

type FinalizeScoresRequest struct {
	ParticipantID int64 `json:"participant_id" validate:"required,gt=0"`
	JuryID        int64 `json:"jury_id" validate:"required,gt=0"`
}

type AddParticipantRequest struct {
	Code string `json:"code" validate:"required,max=16"`
	Name string `json:"name" validate:"required,max=100"`
}

type AddJuryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Response types

// MutationResponse is returned by score mutation endpoints.
type MutationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
