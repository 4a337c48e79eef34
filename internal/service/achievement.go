package service

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/sakif/brightday/internal/model"
)

// DefaultHideDelay is how long a hidden banner keeps its payload, so the
// client can still render it during the exit transition.
const DefaultHideDelay = 300 * time.Millisecond

// Announcer receives the gamification moments the stores detect.
// AchievementPresenter is the production implementation.
type Announcer interface {
	EarlyPlanner()
	Streak(days int)
	Completion()
	Social()
}

// AchievementPresenter holds the transient "current achievement" banner.
//
// At most one achievement is current. Nothing here is persisted: a restart
// simply starts with no banner.
type AchievementPresenter struct {
	mu        sync.Mutex
	current   *model.Achievement
	visible   bool
	gen       uint64 // bumped on every Show/Hide; stale clear timers compare against it
	hideDelay time.Duration
	pick      func(n int) int
	logger    *slog.Logger
}

var _ Announcer = (*AchievementPresenter)(nil)

// NewAchievementPresenter creates a presenter. A non-positive hideDelay
// falls back to DefaultHideDelay.
func NewAchievementPresenter(hideDelay time.Duration, logger *slog.Logger) *AchievementPresenter {
	if hideDelay <= 0 {
		hideDelay = DefaultHideDelay
	}
	return &AchievementPresenter{
		hideDelay: hideDelay,
		pick:      rand.Intn,
		logger:    logger,
	}
}

// Show replaces the current achievement and makes it visible.
func (p *AchievementPresenter) Show(a model.Achievement) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	p.current = &a
	p.visible = true

	p.logger.Info("achievement shown",
		slog.String("title", a.Title),
		slog.Int("points", a.Points),
	)
}

// Hide clears visibility now and the payload after the hide delay.
// A Show that arrives before the delay elapses keeps its own payload.
func (p *AchievementPresenter) Hide() {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.visible = false
	p.mu.Unlock()

	time.AfterFunc(p.hideDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen == gen {
			p.current = nil
		}
	})
}

// Current returns a copy of the current achievement (nil when none) and
// whether it is visible.
func (p *AchievementPresenter) Current() (*model.Achievement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, p.visible
	}
	a := *p.current
	return &a, p.visible
}

// EarlyPlanner announces an event planned at least a week ahead.
func (p *AchievementPresenter) EarlyPlanner() {
	p.Show(model.Achievement{
		Title:       "Early Planner",
		Description: "Planned an event 1 week ahead!",
		Glyph:       "📅",
		Points:      EarlyPlannerPoints,
	})
}

// Streak announces a streak of the given length.
func (p *AchievementPresenter) Streak(days int) {
	p.Show(model.Achievement{
		Title:       fmt.Sprintf("%d Day Streak!", days),
		Description: "Keep the momentum going!",
		Glyph:       "🔥",
		Points:      days * StreakBonusPoints,
	})
}

// Completion announces a completed event with a random cheer.
func (p *AchievementPresenter) Completion() {
	p.Show(model.Achievement{
		Title:       "Task Complete!",
		Description: AchievementMessages[p.pick(len(AchievementMessages))],
		Glyph:       "✅",
		Points:      CompleteEventPoints,
	})
}

// Social announces the unlock of the meetup badge.
func (p *AchievementPresenter) Social() {
	p.Show(model.Achievement{
		Title:       "Social Butterfly",
		Description: "Created your 5th meetup!",
		Glyph:       "🦋",
		Points:      SocialPoints,
	})
}
