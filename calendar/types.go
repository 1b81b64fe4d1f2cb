// Package calendar owns the Calendar, Event and User domain models and
// is the only package permitted to construct or mutate their state.
// It is pure: every operation maps (current state, input) to
// (new state, error) with no I/O and no internal locking; concurrency
// safety comes from the optimistic version counter on Event.
package calendar

import (
	"time"

	"github.com/google/uuid"
)

// UserID identifies a User. The distinct ID types prevent mixing
// identifiers of different entities.
type UserID uuid.UUID

// NewUserID generates a random user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

func (id UserID) String() string { return uuid.UUID(id).String() }

// CalendarID identifies a Calendar.
type CalendarID uuid.UUID

// NewCalendarID generates a random calendar identifier.
func NewCalendarID() CalendarID { return CalendarID(uuid.New()) }

func (id CalendarID) String() string { return uuid.UUID(id).String() }

// EventID identifies an Event.
type EventID uuid.UUID

// NewEventID generates a random event identifier.
func NewEventID() EventID { return EventID(uuid.New()) }

func (id EventID) String() string { return uuid.UUID(id).String() }

// EventStatus is the scheduling status of an event.
type EventStatus string

const (
	StatusConfirmed EventStatus = "CONFIRMED"
	StatusTentative EventStatus = "TENTATIVE"
	StatusCancelled EventStatus = "CANCELLED"
)

// Valid reports whether s is a known status value.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusTentative, StatusCancelled:
		return true
	}
	return false
}

// User is an account resolved by the authentication layer. Users own
// calendars; events reference users only through their calendar.
type User struct {
	ID               UserID
	TelegramID       int64
	TelegramUsername string
	// Timezone is the user's preferred IANA timezone.
	Timezone  string
	CreatedAt time.Time
}

// Calendar is a collection of events owned by a user. Deleting a
// calendar cascades to its events; the engine exposes that rule and the
// persistence layer carries it out.
type Calendar struct {
	ID     CalendarID
	UserID UserID
	Name   string
	// Color is a hex color for UI display, e.g. "#3B82F6".
	Color string
	// Timezone is the default IANA timezone for new events.
	Timezone string
}

// Event is a single or recurring calendar entry.
//
// Start and End are UTC instants; Timezone anchors recurrence expansion
// and display. Version is the optimistic-concurrency counter: it starts
// at 1 on creation and every successful update increments it by one.
type Event struct {
	ID         EventID
	CalendarID CalendarID
	// UID is the iCalendar UID, stable across syncs.
	UID         string
	Title       string
	Description string
	Location    string
	Start       time.Time
	// End, if present, must not be before Start.
	End    *time.Time
	AllDay bool
	Status EventStatus
	// RRule is the normalized recurrence rule expression, empty for a
	// non-recurring event. Its anchor is always the event's own Start
	// converted into Timezone.
	RRule    string
	Timezone string
	Version  int64
	// ETag is content-addressed and maintained by the persistence
	// collaborator, never by this engine.
	ETag      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration returns End-Start, or zero for an event without an end.
func (e *Event) Duration() time.Duration {
	if e.End == nil {
		return 0
	}
	return e.End.Sub(e.Start)
}

// Recurring reports whether the event carries a recurrence rule.
func (e *Event) Recurring() bool { return e.RRule != "" }

// Occurrence is one concrete (start, end) instance of an event. It is
// derived on demand and never persisted.
type Occurrence struct {
	EventID EventID
	Start   time.Time
	End     time.Time
}
