package service

import (
	"time"

	"github.com/rs/xid"

	"github.com/sakif/brightday/internal/calendar"
	"github.com/sakif/brightday/internal/model"
)

// Badge identifiers of the fixed badge set.
const (
	BadgeEarlyPlanner = "early-planner"
	BadgeStreakMaster = "streak-master"
	BadgeSocial       = "social-butterfly"
	BadgeGoalGetter   = "goal-getter"
)

// Point awards and banner values.
const (
	PlanAheadPoints     = 10 // event created for a future day
	CompleteEventPoints = 25 // first completion of an event
	StreakBonusPoints   = 5  // per streak day, shown on the streak banner
	EarlyPlannerPoints  = 20 // shown on the early-planner banner
	SocialPoints        = 50 // shown on the social banner

	// EarlyPlannerDays is how far ahead an event must be to count as early planning.
	EarlyPlannerDays = 7
)

// AchievementMessages is the pool the completion banner draws from.
var AchievementMessages = []string{
	"🌟 Amazing progress!",
	"🎉 You're on fire!",
	"✨ Keep it up!",
	"🚀 Fantastic work!",
	"💪 You're unstoppable!",
	"🎯 Goal achieved!",
	"🏆 Excellence unlocked!",
}

func intPtr(v int) *int { return &v }

// SeedBadges returns a fresh copy of the fixed badge set, all locked.
func SeedBadges() []model.Badge {
	return []model.Badge{
		{
			ID:          BadgeEarlyPlanner,
			Name:        "Early Planner",
			Description: "Plan an event 1 week in advance",
			Glyph:       "📅",
			Progress:    intPtr(0),
			MaxProgress: intPtr(1),
		},
		{
			ID:          BadgeStreakMaster,
			Name:        "Streak Master",
			Description: "Maintain a 7-day planning streak",
			Glyph:       "🔥",
			Progress:    intPtr(0),
			MaxProgress: intPtr(7),
		},
		{
			ID:          BadgeSocial,
			Name:        "Social Butterfly",
			Description: "Create 5 meetup events",
			Glyph:       "🦋",
			Progress:    intPtr(0),
			MaxProgress: intPtr(5),
		},
		{
			ID:          BadgeGoalGetter,
			Name:        "Goal Getter",
			Description: "Complete 50 events",
			Glyph:       "🎯",
			Progress:    intPtr(0),
			MaxProgress: intPtr(50),
		},
	}
}

// SeedProfile is the profile of a fresh installation.
func SeedProfile(now time.Time) *model.Profile {
	const points = 125
	return &model.Profile{
		ID:            xid.New().String(),
		Name:          "Roam",
		Avatar:        "👨‍💼",
		Email:         "roam@brightday.com",
		Points:        points,
		Level:         model.LevelFor(points),
		Streak:        3,
		LongestStreak: 7,
		Badges:        SeedBadges(),
		JoinedAt:      now,
	}
}

// SeedEvents returns the sample events of a fresh installation, dated
// relative to the clock's today.
func SeedEvents(clock calendar.Clock) []model.Event {
	now := clock.Time()
	today := clock.Today()
	plus := func(n int) string {
		d, err := calendar.AddDays(today, n)
		if err != nil {
			return today
		}
		return d
	}

	mk := func(title, desc, date, tm, location string, c model.Category) model.Event {
		return model.Event{
			ID:          xid.New().String(),
			Title:       title,
			Description: desc,
			Date:        date,
			Time:        tm,
			Location:    location,
			Category:    c,
			Glyph:       c.Glyph(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return []model.Event{
		mk("Team Meeting", "Weekly team sync", today, "09:00", "Conference Room A", model.CategoryWork),
		mk("React Workshop", "Learning advanced React patterns", plus(1), "14:00", "", model.CategoryClass),
		mk("Coffee with Sarah", "Catch up over coffee", plus(2), "10:30", "Central Perk", model.CategoryMeetup),
	}
}
