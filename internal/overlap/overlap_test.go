package overlap_test

import (
	"testing"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/overlap"
)

func ev(id, start, end string) model.Event {
	return model.Event{ID: id, Title: "event " + id, StartTime: start, EndTime: end}
}

func TestCheck(t *testing.T) {
	existing := []model.Event{ev("1", "09:00", "10:00"), ev("2", "11:00", "12:00")}

	tests := []struct {
		name      string
		candidate overlap.Interval
		exclude   string
		wantIDs   []string
	}{
		{"free afternoon", overlap.Interval{Start: "13:00", End: "13:30"}, "", nil},
		{"inside first", overlap.Interval{Start: "09:30", End: "09:45"}, "", []string{"1"}},
		{"starts inside", overlap.Interval{Start: "09:30", End: "10:30"}, "", []string{"1"}},
		{"ends inside", overlap.Interval{Start: "08:30", End: "09:15"}, "", []string{"1"}},
		{"encloses both", overlap.Interval{Start: "08:00", End: "12:30"}, "", []string{"1", "2"}},
		{"identical slot", overlap.Interval{Start: "11:00", End: "12:00"}, "", []string{"2"}},
		{"touching end", overlap.Interval{Start: "08:00", End: "09:00"}, "", nil},
		{"touching start", overlap.Interval{Start: "10:00", End: "11:00"}, "", nil},
		{"self excluded", overlap.Interval{Start: "09:00", End: "10:30"}, "1", nil},
		{"exclude keeps others", overlap.Interval{Start: "09:00", End: "11:30"}, "1", []string{"2"}},
		{"unparsable candidate", overlap.Interval{Start: "nine", End: "10:00"}, "", nil},
		{"non-padded input", overlap.Interval{Start: "9:30", End: "9:45"}, "", []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlap.Check(tt.candidate, existing, tt.exclude)
			if got.HasOverlap != (len(tt.wantIDs) > 0) {
				t.Fatalf("HasOverlap = %v, want %v", got.HasOverlap, len(tt.wantIDs) > 0)
			}
			if len(got.Overlapping) != len(tt.wantIDs) {
				t.Fatalf("Overlapping = %v, want ids %v", got.Overlapping, tt.wantIDs)
			}
			for i, id := range tt.wantIDs {
				if got.Overlapping[i].ID != id {
					t.Errorf("Overlapping[%d].ID = %q, want %q", i, got.Overlapping[i].ID, id)
				}
			}
		})
	}
}

func TestCheckSkipsUnparsableExisting(t *testing.T) {
	existing := []model.Event{ev("bad", "later", "10:00"), ev("1", "09:00", "10:00")}
	got := overlap.Check(overlap.Interval{Start: "09:00", End: "09:30"}, existing, "")
	if len(got.Overlapping) != 1 || got.Overlapping[0].ID != "1" {
		t.Errorf("Overlapping = %v, want only id 1", got.Overlapping)
	}
}

func TestCheckIsSymmetricForDisjointSlots(t *testing.T) {
	slots := [][2]string{
		{"08:00", "09:00"}, {"09:00", "09:30"}, {"10:00", "12:00"}, {"12:00", "12:01"}, {"18:00", "23:59"},
	}
	for i := range slots {
		for j := range slots {
			if i == j {
				continue
			}
			a := overlap.Interval{Start: slots[i][0], End: slots[i][1]}
			b := ev("b", slots[j][0], slots[j][1])
			if overlap.Check(a, []model.Event{b}, "").HasOverlap {
				t.Errorf("%v overlaps %v, want disjoint", slots[i], slots[j])
			}
		}
	}
}

func TestCheckEnclosureBothWays(t *testing.T) {
	pairs := []struct{ outer, inner [2]string }{
		{[2]string{"08:00", "12:00"}, [2]string{"09:00", "10:00"}},
		{[2]string{"08:00", "12:00"}, [2]string{"08:00", "10:00"}},
		{[2]string{"08:00", "12:00"}, [2]string{"11:00", "12:00"}},
	}
	for _, p := range pairs {
		outer := ev("o", p.outer[0], p.outer[1])
		inner := ev("i", p.inner[0], p.inner[1])
		if !overlap.Check(overlap.Of(outer), []model.Event{inner}, "").HasOverlap {
			t.Errorf("outer %v does not overlap inner %v", p.outer, p.inner)
		}
		if !overlap.Check(overlap.Of(inner), []model.Event{outer}, "").HasOverlap {
			t.Errorf("inner %v does not overlap outer %v", p.inner, p.outer)
		}
	}
}
