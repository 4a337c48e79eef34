package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/model"
)

func TestEncodeDecode(t *testing.T) {
	events := []model.Event{{ID: "a", Title: "Team Meeting", Date: "2026-10-16", Time: "09:00", Category: model.CategoryWork}}

	raw, err := Encode(events, time.Now())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got []model.Event
	if err := Decode(EventsKey, raw, &got); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "Team Meeting" {
		t.Errorf("Decode() = %+v, want the encoded event", got)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{"},
		{name: "wrong version", raw: `{"version":99,"data":[]}`},
		{name: "missing data", raw: `{"version":1}`},
		{name: "null data", raw: `{"version":1,"data":null}`},
		{name: "payload of wrong type", raw: `{"version":1,"data":"hello"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []model.Event
			err := Decode(EventsKey, []byte(tt.raw), &got)
			if !errors.Is(err, apperror.ErrCorruptState) {
				t.Errorf("Decode(%q) error = %v, want ErrCorruptState", tt.raw, err)
			}
		})
	}
}
