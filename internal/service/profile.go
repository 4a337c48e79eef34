package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/calendar"
	"github.com/sakif/brightday/internal/model"
	"github.com/sakif/brightday/internal/repository"
)

// MaxNameLength bounds the profile display name.
const MaxNameLength = 60

// ProfileService is the User Profile Store: it owns points, level, streak
// and badge progress for the installation's single profile.
//
// Every mutation recomputes derived fields and persists the full profile
// snapshot before returning.
type ProfileService struct {
	mu        sync.Mutex
	repo      repository.SnapshotRepository
	announcer Announcer
	clock     calendar.Clock
	logger    *slog.Logger
	profile   *model.Profile
}

// NewProfileService loads the profile snapshot, falling back to the seed
// profile when it is missing or corrupt. announcer may be nil.
func NewProfileService(ctx context.Context, repo repository.SnapshotRepository, announcer Announcer, clock calendar.Clock, logger *slog.Logger) (*ProfileService, error) {
	s := &ProfileService{
		repo:      repo,
		announcer: announcer,
		clock:     clock,
		logger:    logger,
	}

	var p model.Profile
	found, err := loadSnapshot(ctx, repo, repository.ProfileKey, &p,
		func() error { return checkProfile(&p) }, logger)
	if err != nil {
		return nil, fmt.Errorf("service/profile: %w", err)
	}

	if found {
		p.Level = model.LevelFor(p.Points)
		s.profile = &p
		if added := restoreSeedBadges(s.profile); len(added) > 0 {
			logger.Info("added missing badges to profile", slog.Any("badges", added))
			s.persist(ctx)
		}
	} else {
		s.profile = SeedProfile(clock.Time())
		s.persist(ctx)
	}

	return s, nil
}

// Profile returns a copy of the current profile.
func (s *ProfileService) Profile(_ context.Context) *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// AddPoints adds amount to the cumulative points (floored at zero) and
// recomputes the level. It returns the new total.
func (s *ProfileService) AddPoints(ctx context.Context, amount int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addPointsLocked(amount)
	s.persist(ctx)

	s.logger.Info("points added",
		slog.Int("amount", amount),
		slog.Int("points", s.profile.Points),
		slog.Int("level", s.profile.Level),
	)
	return s.profile.Points
}

func (s *ProfileService) addPointsLocked(amount int) {
	points := s.profile.Points + amount
	if points < 0 {
		points = 0
	}
	s.profile.Points = points
	s.profile.Level = model.LevelFor(points)
}

// UpdateStreak moves the streak one day up (increment) or down, never below
// zero, and keeps LongestStreak as the running maximum. It returns the new streak.
func (s *ProfileService) UpdateStreak(ctx context.Context, increment bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	streak := s.updateStreakLocked(increment)
	s.persist(ctx)
	return streak
}

func (s *ProfileService) updateStreakLocked(increment bool) int {
	p := s.profile
	if increment {
		p.Streak++
	} else if p.Streak > 0 {
		p.Streak--
	}
	if p.Streak > p.LongestStreak {
		p.LongestStreak = p.Streak
	}

	if increment {
		// Streak Master tracks the best streak, capped at its threshold.
		if b := p.Badge(BadgeStreakMaster); b != nil {
			if delta := p.Streak - b.CurrentProgress(); delta > 0 {
				s.advanceBadgeLocked(b, delta)
			}
		}
		if s.announcer != nil {
			s.announcer.Streak(p.Streak)
		}
	}

	s.logger.Info("streak updated",
		slog.Bool("increment", increment),
		slog.Int("streak", p.Streak),
		slog.Int("longest", p.LongestStreak),
	)
	return p.Streak
}

// UpdateBadgeProgress advances a badge by incrementBy (1 when not positive),
// capped at the badge threshold. The call that reaches the threshold stamps
// UnlockedAt and reports unlocked=true.
//
// Badges without a threshold and badges already unlocked are left alone.
// An unknown badge id returns an apperror.ErrNotFound error.
func (s *ProfileService) UpdateBadgeProgress(ctx context.Context, badgeID string, incrementBy int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.profile.Badge(badgeID)
	if b == nil {
		return false, apperror.NotFound("badge", badgeID)
	}
	if incrementBy <= 0 {
		incrementBy = 1
	}

	changed, unlocked := s.advanceBadgeLocked(b, incrementBy)
	if changed {
		s.persist(ctx)
	}
	return unlocked, nil
}

// advanceBadgeLocked applies the badge progress rules to b in place.
func (s *ProfileService) advanceBadgeLocked(b *model.Badge, incrementBy int) (changed, unlocked bool) {
	if b.MaxProgress == nil || *b.MaxProgress <= 0 || b.Unlocked() {
		return false, false
	}

	limit := *b.MaxProgress
	progress := b.CurrentProgress() + incrementBy
	if progress > limit {
		progress = limit
	}
	b.Progress = &progress

	if progress >= limit {
		now := s.clock.Time()
		b.UnlockedAt = &now
		s.logger.Info("badge unlocked", slog.String("badge", b.ID))
		return true, true
	}
	return true, false
}

// RecordActivity marks day (YYYY-MM-DD) as a day the user planned or
// completed something. The streak rollover reads it.
func (s *ProfileService) RecordActivity(ctx context.Context, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profile
	if p.LastActiveOn == day {
		return
	}
	p.PrevActiveOn = p.LastActiveOn
	p.LastActiveOn = day
	s.persist(ctx)
}

// RollOver performs the once-a-day streak maintenance for today: the streak
// grows when the user was active yesterday and shrinks otherwise. A second
// call on the same day does nothing and returns false.
func (s *ProfileService) RollOver(ctx context.Context, today string) (bool, error) {
	yesterday, err := calendar.AddDays(today, -1)
	if err != nil {
		return false, apperror.ValidationFailed("today", "today must be YYYY-MM-DD")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profile
	if p.LastRolloverOn == today {
		return false, nil
	}

	activeYesterday := p.LastActiveOn == yesterday ||
		(p.LastActiveOn == today && p.PrevActiveOn == yesterday)

	s.updateStreakLocked(activeYesterday)
	p.LastRolloverOn = today
	s.persist(ctx)
	return true, nil
}

// UpdateDetails edits the display name, avatar and email.
func (s *ProfileService) UpdateDetails(ctx context.Context, patch model.ProfilePatch) (*model.Profile, error) {
	var name string
	if patch.Name != nil {
		name = strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name must not be empty")
		}
		if len(name) > MaxNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("name must be %d characters or less", MaxNameLength))
		}
	}
	var email string
	if patch.Email != nil {
		email = strings.TrimSpace(*patch.Email)
		if email != "" && !strings.Contains(email, "@") {
			return nil, apperror.ValidationFailed("email", "email must contain @")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Name != nil {
		s.profile.Name = name
	}
	if patch.Email != nil {
		s.profile.Email = email
	}
	if patch.Avatar != nil {
		s.profile.Avatar = strings.TrimSpace(*patch.Avatar)
	}
	s.persist(ctx)

	return s.profile.Clone(), nil
}

func (s *ProfileService) persist(ctx context.Context) {
	saveSnapshot(ctx, s.repo, repository.ProfileKey, s.profile, s.clock.Time(), s.logger)
}
