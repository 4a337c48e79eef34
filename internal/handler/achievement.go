package handler

import (
	"net/http"

	"github.com/sakif/brightday/internal/model"
)

// AchievementView is the presenter surface the HTTP layer needs.
type AchievementView interface {
	Current() (*model.Achievement, bool)
	Hide()
}

// AchievementResponse is the body of GET /api/achievement. Achievement is
// null when nothing is current.
type AchievementResponse struct {
	Achievement *model.Achievement `json:"achievement"`
	Visible     bool               `json:"visible"`
}

// AchievementHandler serves the achievement banner.
type AchievementHandler struct {
	presenter AchievementView
}

// NewAchievementHandler creates an AchievementHandler.
func NewAchievementHandler(presenter AchievementView) *AchievementHandler {
	return &AchievementHandler{presenter: presenter}
}

// HandleGet returns the current banner.
//
// HTTP: GET /api/achievement
func (h *AchievementHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, visible := h.presenter.Current()
	writeJSON(w, http.StatusOK, AchievementResponse{Achievement: a, Visible: visible})
}

// HandleDismiss hides the banner.
//
// HTTP: DELETE /api/achievement
func (h *AchievementHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	h.presenter.Hide()
	w.WriteHeader(http.StatusNoContent)
}
