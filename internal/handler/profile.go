package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/brightday/internal/model"
)

// ProfileStore is the profile store surface the HTTP layer needs.
type ProfileStore interface {
	Profile(ctx context.Context) *model.Profile
	UpdateDetails(ctx context.Context, patch model.ProfilePatch) (*model.Profile, error)
}

// ProfileHandler serves /api/profile.
type ProfileHandler struct {
	profiles ProfileStore
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles ProfileStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// HandleGet returns the profile with points, level, streak and badges.
//
// HTTP: GET /api/profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.profiles.Profile(r.Context()))
}

// HandleUpdate edits the name, avatar or email. Gamification fields are
// not writable.
//
// HTTP: PATCH /api/profile
// BODY: {"name","avatar","email"} (all optional)
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}

	p, err := h.profiles.UpdateDetails(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
