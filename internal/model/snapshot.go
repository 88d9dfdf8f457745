package model

import (
	"slices"
	"sort"

	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
)

// Snapshot maps a day key to that day's events. It is the unit of
// persistence and is treated as immutable once built.
type Snapshot map[string][]Event

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = slices.Clone(v)
	}
	return out
}

// Equal reports whether both snapshots hold the same events per day.
// A missing bucket and an empty bucket are equal.
func (s Snapshot) Equal(o Snapshot) bool {
	for k, v := range s {
		if !slices.Equal(v, o[k]) && !(len(v) == 0 && len(o[k]) == 0) {
			return false
		}
	}
	for k, v := range o {
		if _, ok := s[k]; !ok && len(v) > 0 {
			return false
		}
	}
	return true
}

// Len returns the total number of events.
func (s Snapshot) Len() int {
	n := 0
	for _, v := range s {
		n += len(v)
	}
	return n
}

// DayKeys returns the keys in chronological order. Keys that do not
// decode sort last, lexicographically.
func (s Snapshot) DayKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ti, erri := timecalc.DayFromKey(keys[i])
		tj, errj := timecalc.DayFromKey(keys[j])
		switch {
		case erri != nil && errj != nil:
			return keys[i] < keys[j]
		case erri != nil:
			return false
		case errj != nil:
			return true
		}
		return ti.Before(tj)
	})
	return keys
}
