package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/store"
)

const key = "2026-3-5"

func sample() model.Snapshot {
	return model.Snapshot{
		key: {
			{ID: "1", Title: "Standup", StartTime: "09:00", EndTime: "10:00"},
			{ID: "2", Title: "Review", StartTime: "11:00", EndTime: "12:00"},
		},
		"2026-3-6": {
			{ID: "3", Title: "Gym", StartTime: "18:00", EndTime: "19:00", Color: "#FCA5A5"},
		},
	}
}

func TestDayKey(t *testing.T) {
	d := time.Date(2026, 3, 5, 15, 4, 0, 0, time.UTC)
	if got := store.DayKey(d); got != key {
		t.Errorf("DayKey = %q, want %q", got, key)
	}
}

func TestEventsForDay(t *testing.T) {
	s := sample()
	if got := store.EventsForDay(s, key); len(got) != 2 {
		t.Fatalf("EventsForDay = %d events, want 2", len(got))
	}
	got := store.EventsForDay(s, "2026-1-1")
	if got == nil || len(got) != 0 {
		t.Errorf("EventsForDay(missing) = %#v, want empty slice", got)
	}

	got = store.EventsForDay(s, key)
	got[0].Title = "changed"
	if s[key][0].Title != "Standup" {
		t.Error("EventsForDay exposes the bucket's storage")
	}
}

func TestAddEventIsPure(t *testing.T) {
	s := sample()
	before := s.Clone()

	next := store.AddEvent(s, key, model.Event{ID: "4", Title: "Lunch", StartTime: "13:00", EndTime: "13:30"})

	if !s.Equal(before) {
		t.Error("AddEvent mutated its input")
	}
	if len(next[key]) != 3 || next[key][2].ID != "4" {
		t.Errorf("bucket after add = %v", next[key])
	}

	fresh := store.AddEvent(s, "2026-4-1", model.Event{ID: "5"})
	if len(fresh["2026-4-1"]) != 1 {
		t.Error("AddEvent did not create the missing bucket")
	}
}

func TestAddEventDoesNotAliasSpareCapacity(t *testing.T) {
	bucket := make([]model.Event, 1, 8)
	bucket[0] = model.Event{ID: "1"}
	s := model.Snapshot{key: bucket}

	a := store.AddEvent(s, key, model.Event{ID: "a"})
	b := store.AddEvent(s, key, model.Event{ID: "b"})
	if a[key][1].ID != "a" || b[key][1].ID != "b" {
		t.Errorf("snapshots derived from the same parent share storage: %v %v", a[key], b[key])
	}
}

func TestAddThenDeleteRestoresSnapshot(t *testing.T) {
	for _, day := range []string{key, "2027-1-1"} {
		s := sample()
		e := model.Event{ID: "tmp", Title: "Temp", StartTime: "15:00", EndTime: "16:00"}
		got := store.DeleteEvent(store.AddEvent(s, day, e), day, e.ID)
		if !got.Equal(s) {
			t.Errorf("add+delete on %s: got %v, want %v", day, got, s)
		}
		if _, ok := got["2027-1-1"]; ok {
			t.Error("delete left an empty bucket behind")
		}
	}
}

func TestUpdateEvent(t *testing.T) {
	s := sample()
	before := s.Clone()

	changed := model.Event{ID: "2", Title: "Design review", StartTime: "11:00", EndTime: "12:30"}
	next := store.UpdateEvent(s, key, changed)

	if !s.Equal(before) {
		t.Error("UpdateEvent mutated its input")
	}
	if next[key][1] != changed {
		t.Errorf("updated event = %+v, want %+v", next[key][1], changed)
	}
	if next[key][0] != s[key][0] {
		t.Error("UpdateEvent touched a different event")
	}
}

func TestUpdateEventUnknownIDIsNoop(t *testing.T) {
	s := sample()
	next := store.UpdateEvent(s, key, model.Event{ID: "nope", Title: "X"})
	if !next.Equal(s) {
		t.Error("UpdateEvent on unknown id changed the snapshot")
	}
	next = store.UpdateEvent(s, "2030-1-1", model.Event{ID: "1"})
	if !next.Equal(s) {
		t.Error("UpdateEvent on missing bucket inserted an event")
	}
}

func TestDeleteEvent(t *testing.T) {
	s := sample()
	before := s.Clone()

	next := store.DeleteEvent(s, key, "1")
	if !s.Equal(before) {
		t.Error("DeleteEvent mutated its input")
	}
	if len(next[key]) != 1 || next[key][0].ID != "2" {
		t.Errorf("bucket after delete = %v", next[key])
	}
	if got := store.DeleteEvent(s, key, "missing"); !got.Equal(s) {
		t.Error("DeleteEvent on unknown id changed the snapshot")
	}
}

func TestFindEvent(t *testing.T) {
	day, e, ok := store.FindEvent(sample(), "3")
	if !ok || day != "2026-3-6" || e.Title != "Gym" {
		t.Errorf("FindEvent = %q %+v %v", day, e, ok)
	}
	if _, _, ok := store.FindEvent(sample(), "404"); ok {
		t.Error("FindEvent found a missing id")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := sample()
	s[key][0].Description = "daily"
	s[key][0].Date = "2026-03-05"

	data, err := store.Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := store.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.Equal(s) {
		t.Errorf("round trip = %v, want %v", got, s)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantLen int
		corrupt bool
	}{
		{"empty", "", 0, false},
		{"null", "null", 0, false},
		{"empty object", "{}", 0, false},
		{"one event", `{"2026-3-5":[{"id":"1","title":"A","startTime":"09:00","endTime":"10:00"}]}`, 1, false},
		{"truncated", `{"2026-3-5":[`, 0, true},
		{"wrong shape", `[1,2,3]`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Decode([]byte(tt.data))
			if tt.corrupt {
				if !errors.Is(err, store.ErrCorruptState) {
					t.Fatalf("err = %v, want ErrCorruptState", err)
				}
			} else if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got == nil {
				t.Fatal("Decode returned a nil snapshot")
			}
			if got.Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", got.Len(), tt.wantLen)
			}
		})
	}
}
