package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/calendar"
	"github.com/sakif/brightday/internal/export"
	"github.com/sakif/brightday/internal/model"
)

// EventStore is the event store surface the HTTP layer needs.
// *service.EventService implements it.
type EventStore interface {
	AddEvent(ctx context.Context, in model.NewEvent) (*model.Event, error)
	UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CompleteEvent(ctx context.Context, id string) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context) []model.Event
	EventsOnDate(ctx context.Context, date string) ([]model.Event, error)
	UpcomingEvents(ctx context.Context, limit int) []model.Event
	Month(ctx context.Context, year int, month time.Month, weekStart time.Weekday) []calendar.Day
}

// EventHandler serves the /api/events routes.
type EventHandler struct {
	events EventStore
	clock  calendar.Clock
	logger *slog.Logger
}

// NewEventHandler creates an EventHandler. The clock's location is used to
// place event times on the timeline for the iCalendar export.
func NewEventHandler(events EventStore, clock calendar.Clock, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, clock: clock, logger: logger}
}

// HandleList returns every event, or only those on ?date=YYYY-MM-DD.
//
// HTTP: GET /api/events[?date=YYYY-MM-DD]
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if date := r.URL.Query().Get("date"); date != "" {
		events, err := h.events.EventsOnDate(r.Context(), date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	writeJSON(w, http.StatusOK, h.events.ListEvents(r.Context()))
}

// HandleUpcoming returns the next incomplete events in date/time order.
//
// HTTP: GET /api/events/upcoming[?limit=n]
func (h *EventHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, apperror.ValidationFailed("limit", "limit must be a positive integer"))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, h.events.UpcomingEvents(r.Context(), limit))
}

// HandleGet returns a single event.
//
// HTTP: GET /api/events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleCreate adds an event.
//
// HTTP: POST /api/events
// BODY: {"title","description","date","time","location","category","glyph"}
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.NewEvent
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	ev, err := h.events.AddEvent(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/events/"+ev.ID)
	writeJSON(w, http.StatusCreated, ev)
}

// HandleUpdate applies a partial update. Fields left out of the body keep
// their value.
//
// HTTP: PATCH /api/events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch model.EventPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, err)
		return
	}

	ev, err := h.events.UpdateEvent(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleDelete removes an event.
//
// HTTP: DELETE /api/events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleComplete marks an event done. Repeating it is harmless.
//
// HTTP: POST /api/events/{id}/complete
func (h *EventHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.CompleteEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleExportICS returns every event as an iCalendar file.
//
// HTTP: GET /api/events.ics
func (h *EventHandler) HandleExportICS(w http.ResponseWriter, r *http.Request) {
	body, skipped := export.ICS(h.events.ListEvents(r.Context()), h.clock.Location, h.clock.Time())
	if skipped > 0 {
		h.logger.Warn("skipped events with invalid dates in export", slog.Int("count", skipped))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="brightday.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("writing ics export", slog.String("error", err.Error()))
	}
}
