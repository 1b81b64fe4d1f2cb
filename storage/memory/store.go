// Package memory is an in-memory storage backend for tests and
// examples. It serializes conditional writes per store, which gives
// the per-event commit ordering the engine's concurrency model asks of
// real backends.
package memory

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/televent/core/calendar"
)

// Store implements storage.Store using maps guarded by a mutex.
type Store struct {
	mu        sync.RWMutex
	users     map[calendar.UserID]*calendar.User
	calendars map[calendar.CalendarID]*calendar.Calendar
	events    map[calendar.EventID]*calendar.Event
	logger    *slog.Logger
}

// New creates an empty in-memory store. A nil logger disables logging.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		users:     make(map[calendar.UserID]*calendar.User),
		calendars: make(map[calendar.CalendarID]*calendar.Calendar),
		events:    make(map[calendar.EventID]*calendar.Event),
		logger:    logger,
	}
}

func (s *Store) GetUser(_ context.Context, id calendar.UserID) (*calendar.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, &calendar.UserNotFoundError{ID: id}
	}
	cp := *u
	return &cp, nil
}

func (s *Store) PutUser(_ context.Context, u *calendar.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) GetCalendar(_ context.Context, id calendar.CalendarID) (*calendar.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.calendars[id]
	if !ok {
		return nil, &calendar.CalendarNotFoundError{ID: id}
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCalendars(_ context.Context, owner calendar.UserID) ([]*calendar.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*calendar.Calendar
	for _, c := range s.calendars {
		if c.UserID == owner {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) PutCalendar(_ context.Context, c *calendar.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.calendars[c.ID] = &cp
	return nil
}

// DeleteCalendar removes the calendar and all its events atomically.
func (s *Store) DeleteCalendar(_ context.Context, id calendar.CalendarID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.calendars[id]; !ok {
		return &calendar.CalendarNotFoundError{ID: id}
	}
	delete(s.calendars, id)
	for evID, ev := range s.events {
		if ev.CalendarID == id {
			delete(s.events, evID)
		}
	}
	s.logger.Debug("calendar deleted with cascade", "calendar_id", id)
	return nil
}

func (s *Store) GetEvent(_ context.Context, id calendar.EventID) (*calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, &calendar.EventNotFoundError{ID: id}
	}
	cp := *ev
	return &cp, nil
}

func (s *Store) ListEvents(_ context.Context, cal calendar.CalendarID) ([]*calendar.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*calendar.Event
	for _, ev := range s.events {
		if ev.CalendarID == cal {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

// PutEvent commits ev only if the stored version still matches
// expectedVersion (0 for a new event).
func (s *Store) PutEvent(_ context.Context, ev *calendar.Event, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.events[ev.ID]
	switch {
	case !exists && expectedVersion != 0:
		return &calendar.EventNotFoundError{ID: ev.ID}
	case exists && current.Version != expectedVersion:
		return &calendar.VersionConflictError{Expected: expectedVersion, Actual: current.Version}
	}

	cp := *ev
	s.events[ev.ID] = &cp
	s.logger.Debug("event committed", "event_id", ev.ID, "version", ev.Version)
	return nil
}

// DeleteEvent removes the event only if its version still matches.
func (s *Store) DeleteEvent(_ context.Context, id calendar.EventID, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[id]
	if !ok {
		return &calendar.EventNotFoundError{ID: id}
	}
	if current.Version != expectedVersion {
		return &calendar.VersionConflictError{Expected: expectedVersion, Actual: current.Version}
	}
	delete(s.events, id)
	return nil
}
