package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/validate"
)

var day = []model.Event{
	{ID: "1", Title: "Standup", StartTime: "09:00", EndTime: "10:00"},
	{ID: "2", Title: "Review", StartTime: "11:00", EndTime: "12:00"},
}

func form(title, start, end string) model.Event {
	return model.Event{ID: "new", Title: title, StartTime: start, EndTime: end}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate model.Event
		existing  []model.Event
		editingID string
		wantKind  validate.Kind
	}{
		{"accepted", form("Lunch", "13:00", "13:30"), day, "", ""},
		{"blank title", form("   ", "13:00", "13:30"), day, "", validate.EmptyTitle},
		{"title checked first", form("", "14:00", "13:00"), day, "", validate.EmptyTitle},
		{"bad start", form("Lunch", "1pm", "13:30"), day, "", validate.InvalidTime},
		{"bad end", form("Lunch", "13:00", "25:00"), day, "", validate.InvalidTime},
		{"signed start", form("Lunch", "+9:00", "13:30"), day, "", validate.InvalidTime},
		{"signed minute", form("Lunch", "13:00", "13:+5"), day, "", validate.InvalidTime},
		{"zero length", form("Lunch", "13:00", "13:00"), day, "", validate.InvertedOrZeroInterval},
		{"inverted", form("Lunch", "14:00", "13:00"), day, "", validate.InvertedOrZeroInterval},
		{"inverted beats overlap", form("Lunch", "09:45", "09:30"), day, "", validate.InvertedOrZeroInterval},
		{"overlap", form("Sync", "09:30", "09:45"), day, "", validate.OverlapConflict},
		{"touching", form("Sync", "10:00", "11:00"), day, "", ""},
		{"empty day", form("Sync", "09:30", "09:45"), nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validate.Validate(tt.candidate, tt.existing, tt.editingID)
			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("Validate: unexpected error %v", err)
				}
				if got != tt.candidate {
					t.Errorf("Validate returned %+v, want %+v", got, tt.candidate)
				}
				return
			}
			if !validate.IsKind(err, tt.wantKind) {
				t.Fatalf("Validate err = %v, want kind %q", err, tt.wantKind)
			}
		})
	}
}

func TestValidateNormalizesTimes(t *testing.T) {
	got, err := validate.Validate(form("Lunch", "9:05", " 13:30 "), day, "")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.StartTime != "09:05" || got.EndTime != "13:30" {
		t.Errorf("times = %q - %q, want 09:05 - 13:30", got.StartTime, got.EndTime)
	}
}

func TestValidateOverlapListsConflicts(t *testing.T) {
	_, err := validate.Validate(form("Sync", "09:30", "09:45"), day, "")
	var ve *validate.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(ve.Conflicts) != 1 || ve.Conflicts[0].ID != "1" {
		t.Fatalf("Conflicts = %v, want id 1", ve.Conflicts)
	}
	if !strings.Contains(ve.Error(), "Standup (09:00 - 10:00)") {
		t.Errorf("message %q does not list the conflict", ve.Error())
	}
}

func TestValidateEditExcludesSelf(t *testing.T) {
	edited := day[0]
	edited.EndTime = "10:30"
	if _, err := validate.Validate(edited, day, edited.ID); err != nil {
		t.Fatalf("edit of id 1 to 09:00-10:30: %v", err)
	}

	unchanged := day[1]
	if _, err := validate.Validate(unchanged, day, unchanged.ID); err != nil {
		t.Fatalf("edit without change: %v", err)
	}

	withThird := append(append([]model.Event{}, day...),
		model.Event{ID: "3", Title: "Call", StartTime: "10:15", EndTime: "10:45"})
	_, err := validate.Validate(edited, withThird, edited.ID)
	var ve *validate.ValidationError
	if !errors.As(err, &ve) || ve.Kind != validate.OverlapConflict {
		t.Fatalf("err = %v, want overlap conflict", err)
	}
	if len(ve.Conflicts) != 1 || ve.Conflicts[0].ID != "3" {
		t.Errorf("Conflicts = %v, want id 3", ve.Conflicts)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  *validate.ValidationError
		want string
	}{
		{&validate.ValidationError{Kind: validate.EmptyTitle}, "event title is required"},
		{&validate.ValidationError{Kind: validate.InvertedOrZeroInterval}, "end time must be after start time"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
