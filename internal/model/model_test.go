package model_test

import (
	"slices"
	"testing"

	"github.com/Tiliavir/trivial-calendar/internal/model"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want model.Color
	}{
		{"red", "#FCA5A5"},
		{"Red", "#FCA5A5"},
		{"#fca5a5", "#FCA5A5"},
		{"#123456", "#123456"},
		{"teal", "teal"},
	}
	for _, tt := range tests {
		if got := model.ParseColor(tt.in); got != tt.want {
			t.Errorf("ParseColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColorLabel(t *testing.T) {
	if got := model.DefaultColor().Label(); got != "Blue" {
		t.Errorf("default label = %q, want Blue", got)
	}
	if got := model.Color("#123456").Label(); got != "#123456" {
		t.Errorf("unknown label = %q", got)
	}
}

func TestEventTimeRange(t *testing.T) {
	e := model.Event{StartTime: "9:00", EndTime: "10:30"}
	if got := e.TimeRange(); got != "09:00 - 10:30" {
		t.Errorf("TimeRange = %q", got)
	}
	bad := model.Event{StartTime: "soon", EndTime: "10:30"}
	if got := bad.TimeRange(); got != "soon - 10:30" {
		t.Errorf("TimeRange = %q", got)
	}
}

func TestEventMatches(t *testing.T) {
	e := model.Event{Title: "Team Standup", Description: "Daily sync in Zoom"}
	for _, q := range []string{"", "stand", "ZOOM", "team standup"} {
		if !e.Matches(q) {
			t.Errorf("Matches(%q) = false, want true", q)
		}
	}
	if e.Matches("lunch") {
		t.Error("Matches(lunch) = true, want false")
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := model.Snapshot{"2026-3-5": {{ID: "1", Title: "A"}}}
	b := model.Snapshot{"2026-3-5": {{ID: "1", Title: "A"}}, "2026-3-6": {}}
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("empty bucket should not affect equality")
	}
	c := model.Snapshot{"2026-3-5": {{ID: "1", Title: "B"}}}
	if a.Equal(c) {
		t.Error("different titles reported equal")
	}
	if a.Equal(model.Snapshot{}) {
		t.Error("non-empty equal to empty")
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	a := model.Snapshot{"2026-3-5": {{ID: "1", Title: "A"}}}
	b := a.Clone()
	b["2026-3-5"][0].Title = "changed"
	if a["2026-3-5"][0].Title != "A" {
		t.Error("Clone shares bucket storage")
	}
}

func TestSnapshotDayKeys(t *testing.T) {
	s := model.Snapshot{
		"2026-10-1":  nil,
		"2026-2-15":  nil,
		"garbage":    nil,
		"2025-12-31": nil,
	}
	want := []string{"2025-12-31", "2026-2-15", "2026-10-1", "garbage"}
	if got := s.DayKeys(); !slices.Equal(got, want) {
		t.Errorf("DayKeys = %v, want %v", got, want)
	}
}
