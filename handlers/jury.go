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

type JuryHandler struct {
	gate *gate.Gate
}

func NewJuryHandler(g *gate.Gate) *JuryHandler {
	return &JuryHandler{gate: g}
}

// List handles GET /jury. Access codes are not included.
func (h *JuryHandler) List(w http.ResponseWriter, r *http.Request) {
	jury, err := h.gate.ListJury(r.Context())
	if err != nil {
		slog.Error("failed to list jury", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	refs := make([]models.JuryRef, len(jury))
	for i, j := range jury {
		refs[i] = models.JuryRef{ID: j.ID, Name: j.Name}
	}
	middleware.JSONResponse(w, http.StatusOK, refs)
}

// Get handles GET /jury/{id}, the profile a jury client selects before
// scoring. The access code is not included.
func (h *JuryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	member, err := h.gate.GetJury(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Jury member not found")
		return
	}
	if err != nil {
		slog.Error("failed to get jury member", "jury_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.JuryRef{ID: member.ID, Name: member.Name})
}

// CreateProfile handles POST /jury/profiles
func (h *JuryHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.AddJuryRequest
	if msg, err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	member, err := h.gate.AddJury(r.Context(), req.Name)
	if err != nil {
		writeRosterError(w, err, "Failed to create jury profile")
		return
	}

	slog.Info("jury profile created", "jury_id", member.ID, "name", member.Name)
	middleware.JSONResponse(w, http.StatusCreated, member)
}

func writeRosterError(w http.ResponseWriter, err error, fallback string) {
	status, reason := mutationStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error(fallback, "error", err)
		reason = fallback
	}
	middleware.ErrorResponse(w, status, reason)
}
