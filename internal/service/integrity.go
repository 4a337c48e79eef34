package service

import (
	"errors"
	"fmt"

	"github.com/sakif/brightday/internal/calendar"
	"github.com/sakif/brightday/internal/model"
)

// checkProfile reports the first profile rule a decoded snapshot breaks.
func checkProfile(p *model.Profile) error {
	if p.ID == "" {
		return errors.New("profile has no id")
	}
	if p.Points < 0 {
		return fmt.Errorf("negative points %d", p.Points)
	}
	if p.Streak < 0 {
		return fmt.Errorf("negative streak %d", p.Streak)
	}
	if p.LongestStreak < p.Streak {
		return fmt.Errorf("longest streak %d is below current streak %d", p.LongestStreak, p.Streak)
	}
	for _, day := range []string{p.LastActiveOn, p.PrevActiveOn, p.LastRolloverOn} {
		if day == "" {
			continue
		}
		if _, err := calendar.ParseDate(day); err != nil {
			return fmt.Errorf("bad activity date %q", day)
		}
	}

	seen := make(map[string]bool, len(p.Badges))
	for _, b := range p.Badges {
		if b.ID == "" {
			return errors.New("badge has no id")
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate badge %q", b.ID)
		}
		seen[b.ID] = true

		if b.Progress != nil && *b.Progress < 0 {
			return fmt.Errorf("badge %q has negative progress", b.ID)
		}
		if b.MaxProgress == nil {
			continue
		}
		if *b.MaxProgress < 0 {
			return fmt.Errorf("badge %q has negative max progress", b.ID)
		}
		if *b.MaxProgress > 0 && b.CurrentProgress() > *b.MaxProgress {
			return fmt.Errorf("badge %q progress %d exceeds max %d", b.ID, b.CurrentProgress(), *b.MaxProgress)
		}
	}
	return nil
}

// restoreSeedBadges appends the seed badges a profile is missing, for
// snapshots written before a badge was added. It returns the added ids.
func restoreSeedBadges(p *model.Profile) []string {
	var added []string
	for _, b := range SeedBadges() {
		if p.Badge(b.ID) == nil {
			p.Badges = append(p.Badges, b)
			added = append(added, b.ID)
		}
	}
	return added
}

// checkEvents reports the first event rule a decoded snapshot breaks.
func checkEvents(events []model.Event) error {
	seen := make(map[string]bool, len(events))
	for i := range events {
		ev := &events[i]
		if ev.ID == "" {
			return fmt.Errorf("event %d has no id", i)
		}
		if seen[ev.ID] {
			return fmt.Errorf("duplicate event id %q", ev.ID)
		}
		seen[ev.ID] = true

		if err := validateEvent(ev); err != nil {
			return fmt.Errorf("event %q: %w", ev.ID, err)
		}
		if ev.UpdatedAt.Before(ev.CreatedAt) {
			return fmt.Errorf("event %q updated before it was created", ev.ID)
		}
	}
	return nil
}
