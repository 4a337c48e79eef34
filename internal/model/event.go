// Package model defines the data structures shared by the planner's stores,
// repositories and HTTP handlers.
//
// The JSON tags double as the snapshot encoding: an Event written to storage
// and an Event returned by the API have the same shape.
package model

import "time"

// Date and time layouts used by Event.Date and Event.Time.
//
// Both are stored as plain strings so that lexicographic order equals
// chronological order ("2026-01-09" < "2026-01-10", "09:30" < "14:00").
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Category is the fixed classification of an event.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryClass    Category = "class"
	CategoryMeetup   Category = "meetup"
	CategoryPersonal Category = "personal"
)

// CategoryInfo is the display metadata for a category.
type CategoryInfo struct {
	Glyph string `json:"glyph"`
	Label string `json:"label"`
}

// Categories maps every known category to its default glyph and label.
// A category missing from this map is not valid.
var Categories = map[Category]CategoryInfo{
	CategoryWork:     {Glyph: "💼", Label: "Work"},
	CategoryClass:    {Glyph: "📚", Label: "Class"},
	CategoryMeetup:   {Glyph: "☕", Label: "Meetup"},
	CategoryPersonal: {Glyph: "🧘", Label: "Personal"},
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := Categories[c]
	return ok
}

// Glyph returns the default glyph for the category, or "" when unknown.
func (c Category) Glyph() string {
	return Categories[c].Glyph
}

// Event is a user-scheduled calendar item.
//
// ID is assigned by the event store on creation and never changes.
// UpdatedAt is refreshed on every edit or completion, so UpdatedAt >= CreatedAt.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // HH:MM
	Location    string    `json:"location,omitempty"`
	Category    Category  `json:"category"`
	Glyph       string    `json:"glyph"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewEvent is the user-supplied input for creating an event.
// Everything else on Event is filled in by the store.
type NewEvent struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Location    string   `json:"location"`
	Category    Category `json:"category"`
	Glyph       string   `json:"glyph"`
}

// EventPatch carries a partial update. A nil field means "leave unchanged".
//
// Completion is deliberately absent: it goes through CompleteEvent so that
// points are awarded exactly once.
type EventPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Time        *string   `json:"time,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Glyph       *string   `json:"glyph,omitempty"`
}
