// Package store holds the snapshot operations behind the calendar. Every
// mutator returns a new Snapshot and leaves its input untouched, so older
// snapshots stay valid for undo or diffing.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

var (
	// ErrEventNotFound is returned by callers that require an existing id.
	ErrEventNotFound = errors.New("event not found")
	// ErrCorruptState marks persisted data that could not be decoded.
	ErrCorruptState = errors.New("corrupt persisted calendar state")
)

// Persister reads and writes whole snapshots.
type Persister interface {
	// Load returns an empty snapshot when nothing was persisted yet. Data
	// that cannot be decoded yields an empty snapshot and an error
	// wrapping ErrCorruptState.
	Load(ctx context.Context) (model.Snapshot, error)
	Persist(ctx context.Context, s model.Snapshot) error
}

// DayKey returns the bucket key for date.
func DayKey(date time.Time) string {
	return timecalc.DayKey(date)
}

// EventsForDay returns a copy of the day's bucket, or an empty slice.
func EventsForDay(s model.Snapshot, dayKey string) []model.Event {
	bucket := s[dayKey]
	if len(bucket) == 0 {
		return []model.Event{}
	}
	return slices.Clone(bucket)
}

// AddEvent appends e to the day's bucket, creating it if absent.
func AddEvent(s model.Snapshot, dayKey string, e model.Event) model.Snapshot {
	next := shallowCopy(s)
	bucket := make([]model.Event, 0, len(s[dayKey])+1)
	bucket = append(bucket, s[dayKey]...)
	next[dayKey] = append(bucket, e)
	return next
}

// UpdateEvent replaces the bucket element with e.ID. Without a match the
// input snapshot is returned unchanged; there is no implicit insert.
func UpdateEvent(s model.Snapshot, dayKey string, e model.Event) model.Snapshot {
	i := indexOf(s[dayKey], e.ID)
	if i < 0 {
		return s
	}
	next := shallowCopy(s)
	bucket := slices.Clone(s[dayKey])
	bucket[i] = e
	next[dayKey] = bucket
	return next
}

// DeleteEvent removes the bucket element with id; absent ids are a no-op.
// A bucket left empty is dropped.
func DeleteEvent(s model.Snapshot, dayKey, id string) model.Snapshot {
	i := indexOf(s[dayKey], id)
	if i < 0 {
		return s
	}
	next := shallowCopy(s)
	bucket := slices.Delete(slices.Clone(s[dayKey]), i, i+1)
	if len(bucket) == 0 {
		delete(next, dayKey)
	} else {
		next[dayKey] = bucket
	}
	return next
}

// FindEvent searches every bucket for id.
func FindEvent(s model.Snapshot, id string) (string, model.Event, bool) {
	for key, bucket := range s {
		if i := indexOf(bucket, id); i >= 0 {
			return key, bucket[i], true
		}
	}
	return "", model.Event{}, false
}

// Encode serializes a snapshot in the persisted JSON layout.
func Encode(s model.Snapshot) ([]byte, error) {
	if s == nil {
		s = model.Snapshot{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Decode parses persisted JSON. Empty input is an empty snapshot.
func Decode(data []byte) (model.Snapshot, error) {
	s := model.Snapshot{}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if s == nil {
		s = model.Snapshot{}
	}
	return s, nil
}

// shallowCopy copies the key map. Untouched buckets are shared; mutators
// never write into an existing bucket.
func shallowCopy(s model.Snapshot) model.Snapshot {
	next := make(model.Snapshot, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	return next
}

func indexOf(bucket []model.Event, id string) int {
	return slices.IndexFunc(bucket, func(e model.Event) bool { return e.ID == id })
}
