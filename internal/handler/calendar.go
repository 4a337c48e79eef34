package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/calendar"
)

// CalendarHandler serves the month view.
type CalendarHandler struct {
	events    EventStore
	weekStart time.Weekday
	logger    *slog.Logger
}

// NewCalendarHandler creates a CalendarHandler whose grids start on weekStart.
func NewCalendarHandler(events EventStore, weekStart time.Weekday, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{events: events, weekStart: weekStart, logger: logger}
}

// MonthResponse is the body of GET /api/calendar/{year}/{month}.
type MonthResponse struct {
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	WeekStart string         `json:"weekStart"`
	Days      []calendar.Day `json:"days"`
}

// HandleMonth returns the 42-day grid for a month with events filled in.
//
// HTTP: GET /api/calendar/{year}/{month}
func (h *CalendarHandler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, apperror.ValidationFailed("year", "year must be between 1 and 9999"))
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, apperror.ValidationFailed("month", "month must be between 1 and 12"))
		return
	}

	days := h.events.Month(r.Context(), year, time.Month(month), h.weekStart)
	writeJSON(w, http.StatusOK, MonthResponse{
		Year:      year,
		Month:     month,
		WeekStart: h.weekStart.String(),
		Days:      days,
	})
}
