// Package export renders planner events in external formats.
package export

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sakif/brightday/internal/model"
)

// ProductID is the PRODID of exported calendars.
const ProductID = "-//BrightDay//Planner//EN"

// EventDuration is the length given to exported events, which only carry a
// start time.
const EventDuration = time.Hour

// StartOf returns the instant an event starts in loc.
func StartOf(ev model.Event, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, ev.Date+" "+ev.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("export: event %s has invalid date/time: %w", ev.ID, err)
	}
	return t, nil
}

// ICS serializes events as an iCalendar document. Dates and times are read
// in loc. Events with an unreadable date or time are skipped and reported
// in the returned count.
func ICS(events []model.Event, loc *time.Location, now time.Time) (string, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName("BrightDay")

	var skipped int
	for _, ev := range events {
		start, err := StartOf(ev, loc)
		if err != nil {
			skipped++
			continue
		}

		ve := cal.AddEvent(ev.ID + "@brightday")
		ve.SetDtStampTime(now)
		ve.SetCreatedTime(ev.CreatedAt)
		ve.SetModifiedAt(ev.UpdatedAt)
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(EventDuration))
		ve.SetSummary(summary(ev))
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		ve.SetProperty(ical.ComponentPropertyCategories, categoryLabel(ev.Category))
		if ev.Completed {
			ve.SetProperty(ical.ComponentPropertyStatus, "COMPLETED")
		} else {
			ve.SetProperty(ical.ComponentPropertyStatus, "CONFIRMED")
		}
	}

	return cal.Serialize(), skipped
}

func summary(ev model.Event) string {
	if ev.Glyph == "" {
		return ev.Title
	}
	return ev.Glyph + " " + ev.Title
}

func categoryLabel(c model.Category) string {
	if info, ok := model.Categories[c]; ok {
		return info.Label
	}
	return string(c)
}
