// Package calendar applies validated changes to the single authoritative
// snapshot and persists every accepted change before it becomes visible.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/trivial-calendar/internal/logger"
	"github.com/Tiliavir/trivial-calendar/internal/model"
	"github.com/Tiliavir/trivial-calendar/internal/store"
	"github.com/Tiliavir/trivial-calendar/internal/timecalc"
	"github.com/Tiliavir/trivial-calendar/internal/validate"
)

// Defaults for a new event form.
const (
	DefaultStart = "09:00"
	DefaultEnd   = "10:00"
)

// ErrDuplicateID is returned when a created event reuses an existing id.
var ErrDuplicateID = errors.New("event id already exists")

// Service serializes all mutations through one snapshot reference. Each
// mutation reads the latest snapshot, so no two changes are derived from the
// same stale state.
type Service struct {
	mu           sync.Mutex
	snap         model.Snapshot
	persister    store.Persister
	log          *logger.Logger
	newID        func() string
	defaultColor model.Color
}

// Option customizes a Service.
type Option func(*Service)

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithDefaultColor sets the color given to events created without one.
func WithDefaultColor(c model.Color) Option {
	return func(s *Service) {
		if c != "" {
			s.defaultColor = c
		}
	}
}

// Open loads the persisted snapshot. Corrupt state is logged and replaced
// by an empty calendar; other load failures are returned.
func Open(ctx context.Context, p store.Persister, log *logger.Logger, opts ...Option) (*Service, error) {
	log = log.With("component", "calendar")
	snap, err := p.Load(ctx)
	switch {
	case errors.Is(err, store.ErrCorruptState):
		log.Warn("calendar data unreadable, starting with an empty calendar", "err", err)
		snap = model.Snapshot{}
	case err != nil:
		return nil, fmt.Errorf("loading calendar: %w", err)
	}
	if snap == nil {
		snap = model.Snapshot{}
	}

	s := &Service{
		snap:         snap,
		persister:    p,
		log:          log,
		newID:        uuid.NewString,
		defaultColor: model.DefaultColor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	log.Debug("calendar loaded", "days", len(snap), "events", snap.Len())
	return s, nil
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (s *Service) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Day returns a copy of the events stored for date.
func (s *Service) Day(date time.Time) []model.Event {
	return store.EventsForDay(s.Snapshot(), store.DayKey(date))
}

// Find locates an event by id.
func (s *Service) Find(id string) (string, model.Event, bool) {
	return store.FindEvent(s.Snapshot(), id)
}

// NewEvent returns the defaults for a new event on date.
func (s *Service) NewEvent(date time.Time) model.Event {
	return model.Event{
		ID:        s.newID(),
		StartTime: DefaultStart,
		EndTime:   DefaultEnd,
		Color:     s.defaultColor,
		Date:      timecalc.ISODate(date),
	}
}

// Create validates e against the day's events and stores it. Missing id,
// color and date are filled in.
func (s *Service) Create(ctx context.Context, date time.Time, e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = s.newID()
	}
	if e.Color == "" {
		e.Color = s.defaultColor
	}
	if e.Date == "" {
		e.Date = timecalc.ISODate(date)
	}
	if _, _, exists := store.FindEvent(s.snap, e.ID); exists {
		return model.Event{}, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}

	key := store.DayKey(date)
	valid, err := validate.Validate(e, s.snap[key], "")
	if err != nil {
		s.rejected(key, e.ID, err)
		return model.Event{}, err
	}
	if err := s.commit(ctx, store.AddEvent(s.snap, key, valid)); err != nil {
		return model.Event{}, err
	}
	s.log.Debug("event added", "day", key, "id", valid.ID)
	return valid, nil
}

// Edit applies change to a copy of the stored event and replaces it when the
// result validates. The event keeps its id and day.
func (s *Service) Edit(ctx context.Context, id string, change func(*model.Event)) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, current, ok := store.FindEvent(s.snap, id)
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", store.ErrEventNotFound, id)
	}
	next := current
	change(&next)
	next.ID = current.ID

	valid, err := validate.Validate(next, s.snap[key], id)
	if err != nil {
		s.rejected(key, id, err)
		return model.Event{}, err
	}
	if err := s.commit(ctx, store.UpdateEvent(s.snap, key, valid)); err != nil {
		return model.Event{}, err
	}
	s.log.Debug("event updated", "day", key, "id", id)
	return valid, nil
}

// Delete removes the event with id.
func (s *Service) Delete(ctx context.Context, id string) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, current, ok := store.FindEvent(s.snap, id)
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", store.ErrEventNotFound, id)
	}
	if err := s.commit(ctx, store.DeleteEvent(s.snap, key, id)); err != nil {
		return model.Event{}, err
	}
	s.log.Debug("event deleted", "day", key, "id", id)
	return current, nil
}

// commit persists next and only then makes it current.
func (s *Service) commit(ctx context.Context, next model.Snapshot) error {
	if err := s.persister.Persist(ctx, next); err != nil {
		s.log.Error("persisting calendar failed", "err", err)
		return fmt.Errorf("saving calendar: %w", err)
	}
	s.snap = next
	return nil
}

func (s *Service) rejected(day, id string, err error) {
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		s.log.Info("event rejected", "day", day, "id", id, "kind", ve.Kind)
	}
}
