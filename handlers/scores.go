// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/jury-live/gate"
	"github.com/danielhkuo/jury-live/middleware"
	"github.com/danielhkuo/jury-live/models"
	"github.com/danielhkuo/jury-live/store"
)

type ScoreHandler struct {
	gate *gate.Gate
}

func NewScoreHandler(g *gate.Gate) *ScoreHandler {
	return &ScoreHandler{gate: g}
}

// GetScores handles GET /scores
func (h *ScoreHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	snap, err := h.gate.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to build snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load scores")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}

// GetLeaderboard handles GET /leaderboard
func (h *ScoreHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.gate.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to build snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snap.Leaderboard)
}

// UpdateScore handles POST /update_score
func (h *ScoreHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateScoreRequest
	if msg, err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.MutationResponse{Error: msg})
		return
	}

	err := h.gate.SubmitScore(r.Context(), req.ParticipantID, req.JuryID, req.Contest, *req.Score)
	if err != nil {
		writeMutationError(w, err, "failed to save score")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MutationResponse{Success: true})
}

// FinalizeScores handles POST /finalize_scores
func (h *ScoreHandler) FinalizeScores(w http.ResponseWriter, r *http.Request) {
	var req models.FinalizeScoresRequest
	if msg, err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.MutationResponse{Error: msg})
		return
	}

	if err := h.gate.Finalize(r.Context(), req.ParticipantID, req.JuryID); err != nil {
		writeMutationError(w, err, "failed to finalize scores")
		return
	}

	slog.Info("scores finalized", "participant_id", req.ParticipantID, "jury_id", req.JuryID)
	middleware.JSONResponse(w, http.StatusOK, models.MutationResponse{Success: true})
}

// writeMutationError maps gate and store errors to a status and a reason
// the jury can act on. Anything unrecognized is a persistence failure.
func writeMutationError(w http.ResponseWriter, err error, fallback string) {
	status, reason := mutationStatus(err)
	if status == http.StatusInternalServerError {
		reason = fallback
	}
	middleware.JSONResponse(w, status, models.MutationResponse{Error: reason})
}

func mutationStatus(err error) (int, string) {
	switch {
	case errors.Is(err, gate.ErrOutOfRange):
		return http.StatusBadRequest, "score must be between 0 and 5"
	case errors.Is(err, models.ErrInvalidContest):
		return http.StatusBadRequest, "contest must be one of contest1, contest2, contest3"
	case errors.Is(err, store.ErrAlreadyFinalized):
		return http.StatusConflict, "scores are already finalized"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "participant or jury member not found"
	case errors.Is(err, store.ErrDuplicateName):
		return http.StatusConflict, "name already taken"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
