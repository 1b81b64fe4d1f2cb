// Package storage defines the persistence port the calendar engine's
// collaborators implement: atomic load-by-id and conditional
// write-by-version. The engine never talks to storage itself; the
// interface pins down the contract the optimistic-concurrency model
// relies on.
package storage

import (
	"context"

	"github.com/televent/core/calendar"
)

// Store is implemented by persistence backends. Implementations must
// use the calendar package's error taxonomy: not-found conditions map
// to the *NotFoundError types and failed conditional writes to
// *calendar.VersionConflictError.
type Store interface {
	// GetUser loads a user by id.
	GetUser(ctx context.Context, id calendar.UserID) (*calendar.User, error)
	// PutUser creates or replaces a user record.
	PutUser(ctx context.Context, u *calendar.User) error

	// GetCalendar loads a calendar by id.
	GetCalendar(ctx context.Context, id calendar.CalendarID) (*calendar.Calendar, error)
	// ListCalendars returns all calendars owned by the user.
	ListCalendars(ctx context.Context, owner calendar.UserID) ([]*calendar.Calendar, error)
	// PutCalendar creates or replaces a calendar record.
	PutCalendar(ctx context.Context, c *calendar.Calendar) error
	// DeleteCalendar removes a calendar and cascades to every event it
	// contains, atomically.
	DeleteCalendar(ctx context.Context, id calendar.CalendarID) error

	// GetEvent loads an event, including its stored version.
	GetEvent(ctx context.Context, id calendar.EventID) (*calendar.Event, error)
	// ListEvents returns all events in the calendar.
	ListEvents(ctx context.Context, cal calendar.CalendarID) ([]*calendar.Event, error)
	// PutEvent commits ev conditionally: the write succeeds only if the
	// stored version still equals expectedVersion. expectedVersion 0
	// means the event must not exist yet. Of two concurrent commits
	// against the same version, exactly one succeeds; the other gets
	// *calendar.VersionConflictError.
	PutEvent(ctx context.Context, ev *calendar.Event, expectedVersion int64) error
	// DeleteEvent removes an event conditionally on its version.
	DeleteEvent(ctx context.Context, id calendar.EventID, expectedVersion int64) error
}
