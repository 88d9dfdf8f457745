package calendar

import (
	"context"

	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/store"
	"github.com/Tiliavir/trivial-calendar/internal/validate"
)

// ImportResult holds counters for an import run.
type ImportResult struct {
	Imported  int
	Updated   int
	Unchanged int
	Skipped   int
	Rejected  []Rejection
}

// Rejection is an incoming event that failed validation.
type Rejection struct {
	Placement model.Placement
	Err       error
}

// Import books incoming events one at a time. An id that already exists is
// updated in place (or moved to its new day); everything else is added.
// Each event is validated against its day as it stands after the previous
// ones, and each accepted event is persisted before the next is considered.
// With dryRun nothing is persisted and the service snapshot is unchanged.
func (s *Service) Import(ctx context.Context, in []model.Placement, dryRun bool) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res ImportResult
	working := s.snap
	for _, p := range in {
		e := p.Event
		if e.Color == "" {
			e.Color = s.defaultColor
		}

		prevKey, prev, exists := store.FindEvent(working, e.ID)
		if exists && prevKey == p.DayKey && prev == e {
			res.Unchanged++
			continue
		}

		excludeID := ""
		if exists {
			excludeID = e.ID
		}
		valid, err := validate.Validate(e, working[p.DayKey], excludeID)
		if err != nil {
			s.log.Debug("import skipped event", "day", p.DayKey, "id", e.ID, "err", err)
			res.Skipped++
			res.Rejected = append(res.Rejected, Rejection{Placement: p, Err: err})
			continue
		}

		var next model.Snapshot
		counter := &res.Imported
		switch {
		case exists && prevKey == p.DayKey:
			next = store.UpdateEvent(working, p.DayKey, valid)
			counter = &res.Updated
		case exists:
			next = store.AddEvent(store.DeleteEvent(working, prevKey, e.ID), p.DayKey, valid)
			counter = &res.Updated
		default:
			next = store.AddEvent(working, p.DayKey, valid)
		}

		if !dryRun {
			if err := s.commit(ctx, next); err != nil {
				return res, err
			}
		}
		*counter++
		working = next
	}
	return res, nil
}
