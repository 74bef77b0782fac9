// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/jury-live/auth"
	"github.com/danielhkuo/jury-live/cliparse"
	"github.com/danielhkuo/jury-live/gate"
	"github.com/danielhkuo/jury-live/middleware"
	"github.com/danielhkuo/jury-live/models"
)

type AdminHandler struct {
	gate *gate.Gate
	cfg  cliparse.Config
}

func NewAdminHandler(g *gate.Gate, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{gate: g, cfg: cfg}
}

// RequireAdmin rejects requests without a valid X-Admin-Key header
func (h *AdminHandler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), h.cfg.AdminKey); err != nil {
			slog.Warn("admin request rejected", "path", r.URL.Path, "remote", middleware.GetClientIP(r))
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
			return
		}
		next(w, r)
	}
}

// ListParticipants handles GET /admin/participants
func (h *AdminHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.gate.ListParticipants(r.Context())
	if err != nil {
		slog.Error("failed to list participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, participants)
}

// AddParticipant handles POST /admin/participants
func (h *AdminHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req models.AddParticipantRequest
	if msg, err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	p, err := h.gate.AddParticipant(r.Context(), req.Code, req.Name)
	if err != nil {
		writeRosterError(w, err, "Failed to add participant")
		return
	}

	slog.Info("participant added", "participant_id", p.ID, "code", p.Code)
	middleware.JSONResponse(w, http.StatusCreated, p)
}

// DeleteParticipant handles DELETE /admin/participants/{id}
func (h *AdminHandler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.gate.DeleteParticipant(r.Context(), id); err != nil {
		writeRosterError(w, err, "Failed to delete participant")
		return
	}

	slog.Info("participant deleted", "participant_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.MutationResponse{Success: true})
}

// ResetParticipant handles POST /admin/participants/{id}/reset
func (h *AdminHandler) ResetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.gate.ResetParticipant(r.Context(), id); err != nil {
		writeRosterError(w, err, "Failed to reset participant")
		return
	}

	slog.Info("participant scores reset", "participant_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.MutationResponse{Success: true})
}

// ListJury handles GET /admin/jury, codes included
func (h *AdminHandler) ListJury(w http.ResponseWriter, r *http.Request) {
	jury, err := h.gate.ListJury(r.Context())
	if err != nil {
		slog.Error("failed to list jury", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, jury)
}

// AddJury handles POST /admin/jury
func (h *AdminHandler) AddJury(w http.ResponseWriter, r *http.Request) {
	var req models.AddJuryRequest
	if msg, err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	member, err := h.gate.AddJury(r.Context(), req.Name)
	if err != nil {
		writeRosterError(w, err, "Failed to add jury member")
		return
	}

	slog.Info("jury member added", "jury_id", member.ID, "name", member.Name)
	middleware.JSONResponse(w, http.StatusCreated, member)
}

// DeleteJury handles DELETE /admin/jury/{id}
func (h *AdminHandler) DeleteJury(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.gate.DeleteJury(r.Context(), id); err != nil {
		writeRosterError(w, err, "Failed to delete jury member")
		return
	}

	slog.Info("jury member deleted", "jury_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.MutationResponse{Success: true})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
