package msgraph_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/trivial-calendar/internal/calendar"
	"github.com/Tiliavir/trivial-calendar/internal/logger"
	"github.com/Tiliavir/trivial-calendar/internal/msgraph"
	"github.com/Tiliavir/trivial-calendar/internal/storage"
)

func makeEvent(id, subject, start, end string) msgraph.CalendarEvent {
	return msgraph.CalendarEvent{
		ID:          id,
		Subject:     subject,
		BodyPreview: "",
		IsAllDay:    false,
		IsCancelled: false,
		Sensitivity: "normal",
		ShowAs:      "busy",
		Start: struct {
			DateTime string `json:"dateTime"`
			TimeZone string `json:"timeZone"`
		}{DateTime: start, TimeZone: "UTC"},
		End: struct {
			DateTime string `json:"dateTime"`
			TimeZone string `json:"timeZone"`
		}{DateTime: end, TimeZone: "UTC"},
	}
}

func TestMapEvent(t *testing.T) {
	event := makeEvent("ext-id-1", "Sprint Planning", "2026-02-27T09:00:00.0000000", "2026-02-27T10:30:00.0000000")
	p, err := msgraph.MapEvent(event, time.UTC)
	if err != nil {
		t.Fatalf("MapEvent: %v", err)
	}
	if p.DayKey != "2026-2-27" {
		t.Errorf("DayKey = %q", p.DayKey)
	}
	e := p.Event
	if e.ID != msgraph.EventID("ext-id-1") {
		t.Errorf("ID = %q, want derived from graph id", e.ID)
	}
	if e.Title != "Sprint Planning" || e.StartTime != "09:00" || e.EndTime != "10:30" || e.Date != "2026-02-27" {
		t.Errorf("event = %+v", e)
	}
}

func TestMapEvent_WithLocationAndCategory(t *testing.T) {
	event := makeEvent("ext-id-2", "Standup", "2026-02-27T10:00:00", "2026-02-27T10:15:00")
	event.BodyPreview = "Daily standup"
	event.Location.DisplayName = "Zoom"
	event.Categories = []string{"Important", "Green category"}

	p, err := msgraph.MapEvent(event, time.UTC)
	if err != nil {
		t.Fatalf("MapEvent: %v", err)
	}
	if p.Event.Description != "Daily standup\nZoom" {
		t.Errorf("Description = %q, want %q", p.Event.Description, "Daily standup\nZoom")
	}
	if p.Event.Color != "#86EFAC" {
		t.Errorf("Color = %q, want green", p.Event.Color)
	}
}

func TestMapEvent_ConvertsTimezone(t *testing.T) {
	event := makeEvent("ext-id-3", "Call", "2026-02-27T23:00:00Z", "2026-02-27T23:30:00Z")
	berlin := time.FixedZone("CET", 60*60)

	p, err := msgraph.MapEvent(event, berlin)
	if err != nil {
		t.Fatalf("MapEvent: %v", err)
	}
	if p.DayKey != "2026-2-28" || p.Event.StartTime != "00:00" || p.Event.EndTime != "00:30" {
		t.Errorf("placement = %+v", p)
	}
}

func TestToPlacements_SkipFiltered(t *testing.T) {
	tests := []struct {
		name   string
		event  msgraph.CalendarEvent
		reason string
	}{
		{
			name: "cancelled",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c1", "Cancelled", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
				e.IsCancelled = true
				return e
			}(),
			reason: msgraph.ReasonCancelled,
		},
		{
			name: "all-day",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c2", "All Day", "2026-02-27T00:00:00", "2026-02-28T00:00:00")
				e.IsAllDay = true
				return e
			}(),
			reason: msgraph.ReasonAllDay,
		},
		{
			name: "private",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c3", "Private", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
				e.Sensitivity = "private"
				return e
			}(),
			reason: msgraph.ReasonPrivate,
		},
		{
			name: "free",
			event: func() msgraph.CalendarEvent {
				e := makeEvent("c4", "Free Block", "2026-02-27T09:00:00", "2026-02-27T10:00:00")
				e.ShowAs = "free"
				return e
			}(),
			reason: msgraph.ReasonFree,
		},
		{
			name:   "multi-day",
			event:  makeEvent("c5", "Offsite", "2026-02-27T22:00:00", "2026-02-28T02:00:00"),
			reason: msgraph.ReasonMultiDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placed, skipped := msgraph.ToPlacements([]msgraph.CalendarEvent{tt.event}, time.UTC)
			if len(placed) != 0 {
				t.Errorf("expected 0 placed for %s event, got %d", tt.name, len(placed))
			}
			if len(skipped) != 1 || skipped[0].Reason != tt.reason {
				t.Errorf("skipped = %+v, want reason %q", skipped, tt.reason)
			}
		})
	}
}

func TestImportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), storage.DefaultFileName)
	svc, err := calendar.Open(ctx, storage.NewFile(path), logger.Discard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	event := makeEvent("ext-1", "Architecture Board", "2026-02-27T09:00:00", "2026-02-27T10:30:00")
	placed, _ := msgraph.ToPlacements([]msgraph.CalendarEvent{event}, time.UTC)

	r1, err := svc.Import(ctx, placed, false)
	if err != nil || r1.Imported != 1 {
		t.Fatalf("first import = %+v, %v", r1, err)
	}
	r2, err := svc.Import(ctx, placed, false)
	if err != nil || r2.Imported != 0 || r2.Unchanged != 1 {
		t.Errorf("second import = %+v, %v; want unchanged", r2, err)
	}

	event.Subject = "Architecture Board (updated)"
	placed, _ = msgraph.ToPlacements([]msgraph.CalendarEvent{event}, time.UTC)
	r3, err := svc.Import(ctx, placed, false)
	if err != nil || r3.Updated != 1 {
		t.Errorf("third import = %+v, %v; want updated", r3, err)
	}
	if svc.Snapshot().Len() != 1 {
		t.Errorf("events = %d, want 1", svc.Snapshot().Len())
	}
}
