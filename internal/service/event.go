// Package service holds the planner's state containers.
//
// Three cooperating stores live here:
//
//	EventService          the Event Store: the flat list of user events
//	ProfileService        the User Profile Store: points, level, streak, badges
//	AchievementPresenter  the transient achievement banner
//
// The stores are explicit objects wired together in the server's
// composition root. The event store talks to the profile store only
// through the Rewarder interface and to the presenter only through
// Announcer, which keeps each of them testable with small fakes.
//
// Every mutation runs to completion under the store's mutex and ends with a
// synchronous full-snapshot write through repository.SnapshotRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/calendar"
	"github.com/sakif/brightday/internal/model"
	"github.com/sakif/brightday/internal/repository"
)

// Validation and listing limits.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxLocationLength    = 200
	DefaultUpcomingLimit = 5
)

// Rewarder is the slice of the profile store the event store needs for its
// side effects. *ProfileService implements it.
type Rewarder interface {
	AddPoints(ctx context.Context, amount int) int
	UpdateBadgeProgress(ctx context.Context, badgeID string, incrementBy int) (bool, error)
	RecordActivity(ctx context.Context, day string)
}

var _ Rewarder = (*ProfileService)(nil)

// EventService is the Event Store. It owns the event list, derives the day
// and upcoming views, and triggers point and badge side effects.
type EventService struct {
	mu        sync.Mutex
	repo      repository.SnapshotRepository
	rewards   Rewarder
	announcer Announcer
	clock     calendar.Clock
	logger    *slog.Logger
	events    []model.Event
}

// NewEventService loads the event snapshot, falling back to the seed events
// when it is missing or corrupt. announcer may be nil.
func NewEventService(ctx context.Context, repo repository.SnapshotRepository, rewards Rewarder, announcer Announcer, clock calendar.Clock, logger *slog.Logger) (*EventService, error) {
	s := &EventService{
		repo:      repo,
		rewards:   rewards,
		announcer: announcer,
		clock:     clock,
		logger:    logger,
	}

	var events []model.Event
	found, err := loadSnapshot(ctx, repo, repository.EventsKey, &events,
		func() error { return checkEvents(events) }, logger)
	if err != nil {
		return nil, fmt.Errorf("service/event: %w", err)
	}

	if found {
		s.events = events
	} else {
		s.events = SeedEvents(clock)
		s.persist(ctx)
	}

	return s, nil
}

// AddEvent validates and stores a new event, then applies the planning
// rewards: +10 points for any future day, early-planner progress for a week
// or more ahead, and social progress for meetups.
func (s *EventService) AddEvent(ctx context.Context, in model.NewEvent) (*model.Event, error) {
	ev := model.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        strings.TrimSpace(in.Date),
		Time:        strings.TrimSpace(in.Time),
		Location:    strings.TrimSpace(in.Location),
		Category:    in.Category,
		Glyph:       strings.TrimSpace(in.Glyph),
	}
	if err := validateEvent(&ev); err != nil {
		return nil, err
	}
	if ev.Glyph == "" {
		ev.Glyph = ev.Category.Glyph()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Time()
	ev.ID = s.newIDLocked()
	ev.Completed = false
	ev.CreatedAt = now
	ev.UpdatedAt = now

	s.events = append(s.events, ev)
	s.persist(ctx)

	s.logger.Info("event created",
		slog.String("id", ev.ID),
		slog.String("date", ev.Date),
		slog.String("category", string(ev.Category)),
	)

	today := s.clock.Today()
	daysAhead, err := calendar.DaysBetween(today, ev.Date)
	if err != nil {
		// validateEvent already parsed the date; this only fails on a broken clock.
		s.logger.Error("computing days ahead", slog.String("error", err.Error()))
	}

	if daysAhead > 0 {
		s.rewards.AddPoints(ctx, PlanAheadPoints)
		if daysAhead >= EarlyPlannerDays {
			s.advanceBadge(ctx, BadgeEarlyPlanner)
			if s.announcer != nil {
				s.announcer.EarlyPlanner()
			}
		}
	}

	if ev.Category == model.CategoryMeetup {
		if s.advanceBadge(ctx, BadgeSocial) && s.announcer != nil {
			s.announcer.Social()
		}
	}

	s.rewards.RecordActivity(ctx, today)

	out := ev
	return &out, nil
}

// newIDLocked returns an xid that no stored event uses yet.
func (s *EventService) newIDLocked() string {
	for {
		id := xid.New().String()
		if s.indexLocked(id) < 0 {
			return id
		}
	}
}

// advanceBadge bumps a badge by one and reports whether that unlocked it.
// A badge missing from an old profile snapshot is logged and skipped.
func (s *EventService) advanceBadge(ctx context.Context, badgeID string) bool {
	unlocked, err := s.rewards.UpdateBadgeProgress(ctx, badgeID, 1)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Warn("badge missing from profile", slog.String("badge", badgeID))
			return false
		}
		s.logger.Error("advancing badge",
			slog.String("badge", badgeID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return unlocked
}

// UpdateEvent applies the non-nil fields of patch to the event and refreshes
// UpdatedAt. The ID and CreatedAt never change.
func (s *EventService) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (*model.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "event ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, apperror.NotFound("event", id)
	}

	// Work on a copy so a validation failure leaves the stored event intact.
	ev := s.events[i]
	if patch.Title != nil {
		ev.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		ev.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Date != nil {
		ev.Date = strings.TrimSpace(*patch.Date)
	}
	if patch.Time != nil {
		ev.Time = strings.TrimSpace(*patch.Time)
	}
	if patch.Location != nil {
		ev.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Category != nil {
		ev.Category = *patch.Category
	}
	if patch.Glyph != nil {
		ev.Glyph = strings.TrimSpace(*patch.Glyph)
	}
	if err := validateEvent(&ev); err != nil {
		return nil, err
	}
	if ev.Glyph == "" {
		ev.Glyph = ev.Category.Glyph()
	}
	ev.UpdatedAt = s.touchTime(ev.CreatedAt)

	s.events[i] = ev
	s.persist(ctx)

	s.logger.Info("event updated", slog.String("id", id))

	out := ev
	return &out, nil
}

// DeleteEvent removes the event with the given id.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "event ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return apperror.NotFound("event", id)
	}

	s.events = append(s.events[:i], s.events[i+1:]...)
	s.persist(ctx)

	s.logger.Info("event deleted", slog.String("id", id))
	return nil
}

// CompleteEvent marks the event done and awards completion points and
// goal-getter progress. Completing an already completed event returns it
// unchanged and awards nothing.
func (s *EventService) CompleteEvent(ctx context.Context, id string) (*model.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "event ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, apperror.NotFound("event", id)
	}

	ev := &s.events[i]
	if ev.Completed {
		out := *ev
		return &out, nil
	}

	ev.Completed = true
	ev.UpdatedAt = s.touchTime(ev.CreatedAt)
	out := *ev
	s.persist(ctx)

	s.logger.Info("event completed", slog.String("id", id))

	s.rewards.AddPoints(ctx, CompleteEventPoints)
	s.advanceBadge(ctx, BadgeGoalGetter)
	if s.announcer != nil {
		s.announcer.Completion()
	}
	s.rewards.RecordActivity(ctx, s.clock.Today())

	return &out, nil
}

// GetEvent returns a single event.
func (s *EventService) GetEvent(_ context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(strings.TrimSpace(id))
	if i < 0 {
		return nil, apperror.NotFound("event", id)
	}
	out := s.events[i]
	return &out, nil
}

// ListEvents returns every event in store order.
func (s *EventService) ListEvents(_ context.Context) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsOnDate returns the events whose date equals date, in store order.
func (s *EventService) EventsOnDate(_ context.Context, date string) ([]model.Event, error) {
	date = strings.TrimSpace(date)
	if _, err := calendar.ParseDate(date); err != nil {
		return nil, apperror.ValidationFailed("date", "date must be YYYY-MM-DD")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Event, 0)
	for _, ev := range s.events {
		if ev.Date == date {
			out = append(out, ev)
		}
	}
	return out, nil
}

// UpcomingEvents returns at most limit incomplete events dated today or
// later, ordered by date then time. A non-positive limit means
// DefaultUpcomingLimit.
func (s *EventService) UpcomingEvents(_ context.Context, limit int) []model.Event {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	today := s.clock.Today()

	s.mu.Lock()
	out := make([]model.Event, 0, len(s.events))
	for _, ev := range s.events {
		if !ev.Completed && ev.Date >= today {
			out = append(out, ev)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Month returns the 42-day grid around the given month with each day's
// events filled in.
func (s *EventService) Month(_ context.Context, year int, month time.Month, weekStart time.Weekday) []calendar.Day {
	days := calendar.MonthGrid(year, month, weekStart, s.clock.Today())

	index := make(map[string]int, len(days))
	for i, d := range days {
		index[d.Date] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.events {
		if i, ok := index[ev.Date]; ok {
			days[i].Events = append(days[i].Events, ev)
		}
	}
	return days
}

func (s *EventService) indexLocked(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

// touchTime returns now, but never earlier than createdAt.
func (s *EventService) touchTime(createdAt time.Time) time.Time {
	now := s.clock.Time()
	if now.Before(createdAt) {
		return createdAt
	}
	return now
}

func (s *EventService) persist(ctx context.Context) {
	saveSnapshot(ctx, s.repo, repository.EventsKey, s.events, s.clock.Time(), s.logger)
}

// validateEvent checks the required fields and formats of ev.
func validateEvent(ev *model.Event) error {
	if ev.Title == "" {
		return apperror.ValidationFailed("title", "event title is required")
	}
	if len(ev.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("event title must be %d characters or less", MaxTitleLength))
	}
	if len(ev.Description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if len(ev.Location) > MaxLocationLength {
		return apperror.ValidationFailed("location",
			fmt.Sprintf("location must be %d characters or less", MaxLocationLength))
	}
	if ev.Date == "" {
		return apperror.ValidationFailed("date", "event date is required")
	}
	if _, err := calendar.ParseDate(ev.Date); err != nil {
		return apperror.ValidationFailed("date", "event date must be YYYY-MM-DD")
	}
	if ev.Time == "" {
		return apperror.ValidationFailed("time", "event time is required")
	}
	if !calendar.ValidTime(ev.Time) {
		return apperror.ValidationFailed("time", "event time must be HH:MM")
	}
	if ev.Category == "" {
		return apperror.ValidationFailed("category", "event category is required")
	}
	if !ev.Category.Valid() {
		return apperror.ValidationFailed("category",
			fmt.Sprintf("unknown category %q", ev.Category))
	}
	return nil
}
