package model

import "time"

// PointsPerLevel is the number of points between two levels.
const PointsPerLevel = 100

// LevelFor returns the level reached with the given cumulative points:
// floor(points/100)+1. Negative totals are treated as zero.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// Profile is the single user of an installation together with their
// gamification state.
//
// Level is derived from Points and is recomputed on every change, it is
// stored only so that the snapshot is self-describing.
type Profile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Avatar        string    `json:"avatar"`
	Email         string    `json:"email"`
	Points        int       `json:"points"`
	Level         int       `json:"level"`
	Streak        int       `json:"streak"`
	LongestStreak int       `json:"longestStreak"`
	Badges        []Badge   `json:"badges"`
	JoinedAt      time.Time `json:"joinedAt"`

	// LastActiveOn is the YYYY-MM-DD date of the last event mutation.
	// The daily streak rollover compares it against yesterday.
	LastActiveOn string `json:"lastActiveOn,omitempty"`
	// PrevActiveOn is the active date before LastActiveOn.
	PrevActiveOn string `json:"prevActiveOn,omitempty"`
	// LastRolloverOn is the YYYY-MM-DD date the streak was last rolled over.
	LastRolloverOn string `json:"lastRolloverOn,omitempty"`
}

// Badge returns a pointer to the badge with the given id, or nil.
func (p *Profile) Badge(id string) *Badge {
	for i := range p.Badges {
		if p.Badges[i].ID == id {
			return &p.Badges[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can't mutate store-owned state.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Badges = make([]Badge, len(p.Badges))
	for i, b := range p.Badges {
		c.Badges[i] = b.clone()
	}
	return &c
}

// Badge is a gamification achievement with optional progress tracking.
//
// Invariants: Progress never exceeds MaxProgress, Progress only moves forward,
// and once UnlockedAt is set it is never cleared.
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Glyph       string     `json:"glyph"`
	Progress    *int       `json:"progress,omitempty"`
	MaxProgress *int       `json:"maxProgress,omitempty"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// Unlocked reports whether the badge has been earned.
func (b Badge) Unlocked() bool {
	return b.UnlockedAt != nil
}

// CurrentProgress returns Progress, treating an unset value as zero.
func (b Badge) CurrentProgress() int {
	if b.Progress == nil {
		return 0
	}
	return *b.Progress
}

func (b Badge) clone() Badge {
	c := b
	if b.Progress != nil {
		v := *b.Progress
		c.Progress = &v
	}
	if b.MaxProgress != nil {
		v := *b.MaxProgress
		c.MaxProgress = &v
	}
	if b.UnlockedAt != nil {
		v := *b.UnlockedAt
		c.UnlockedAt = &v
	}
	return c
}

// ProfilePatch carries editable profile details. Nil fields are unchanged.
type ProfilePatch struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Email  *string `json:"email,omitempty"`
}
