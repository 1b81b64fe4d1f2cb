package calendar

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/televent/core/recurrence"
	"github.com/televent/core/timezone"
)

// Aggregate applies create/update/delete operations to calendars,
// events and users, enforcing every domain invariant before a value
// crosses back to a collaborator. It delegates timezone normalization
// to timezone.Service and occurrence computation to recurrence.Engine.
type Aggregate struct {
	tz     *timezone.Service
	rec    *recurrence.Engine
	logger *slog.Logger
}

// New creates an aggregate. A nil logger disables logging.
func New(tz *timezone.Service, rec *recurrence.Engine, logger *slog.Logger) *Aggregate {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregate{tz: tz, rec: rec, logger: logger}
}

// CreateEventParams carries the caller-supplied fields for a new event.
type CreateEventParams struct {
	Title       string
	Description string
	Location    string
	// Start is the event's start instant in UTC.
	Start time.Time
	// End is optional; if present it must not be before Start.
	End    *time.Time
	AllDay bool
	// Status defaults to StatusConfirmed.
	Status EventStatus
	// Timezone defaults to the calendar's default timezone.
	Timezone string
	// RRule is an optional recurrence rule expression.
	RRule string
}

// CreateUser validates the preferred timezone and constructs a user.
func (a *Aggregate) CreateUser(telegramID int64, username, tzName string) (*User, error) {
	if _, err := a.tz.Validate(tzName); err != nil {
		return nil, err
	}
	u := &User{
		ID:               NewUserID(),
		TelegramID:       telegramID,
		TelegramUsername: username,
		Timezone:         tzName,
		CreatedAt:        time.Now().UTC(),
	}
	a.logger.Debug("user created", "user_id", u.ID, "telegram_id", telegramID)
	return u, nil
}

// CreateCalendar constructs a calendar owned by owner. An empty
// timezone falls back to the owner's preferred timezone.
func (a *Aggregate) CreateCalendar(owner *User, name, color, tzName string) (*Calendar, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &InvalidEventDataError{Reason: "calendar name must not be blank"}
	}
	if tzName == "" {
		tzName = owner.Timezone
	}
	if _, err := a.tz.Validate(tzName); err != nil {
		return nil, err
	}
	if color == "" {
		color = "#3B82F6"
	}
	c := &Calendar{
		ID:       NewCalendarID(),
		UserID:   owner.ID,
		Name:     name,
		Color:    color,
		Timezone: tzName,
	}
	a.logger.Debug("calendar created", "calendar_id", c.ID, "user_id", owner.ID)
	return c, nil
}

// DeleteCalendar removes a calendar. Deletion cascades to the
// calendar's events: the persistence collaborator must delete every
// contained event in the same transaction.
func (a *Aggregate) DeleteCalendar(cal *Calendar) error {
	a.logger.Debug("calendar deleted", "calendar_id", cal.ID)
	return nil
}

// CreateEvent validates the params and constructs an event at version 1.
func (a *Aggregate) CreateEvent(cal *Calendar, p CreateEventParams) (*Event, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, &InvalidEventDataError{Reason: "title must not be blank"}
	}

	tzName := p.Timezone
	if tzName == "" {
		tzName = cal.Timezone
	}
	if _, err := a.tz.Validate(tzName); err != nil {
		return nil, err
	}

	start := p.Start.UTC()
	var end *time.Time
	if p.End != nil {
		u := p.End.UTC()
		if u.Before(start) {
			return nil, &InvalidEventDataError{Reason: "end must not be before start"}
		}
		end = &u
	}

	status := p.Status
	if status == "" {
		status = StatusConfirmed
	}
	if !status.Valid() {
		return nil, &InvalidEventDataError{Reason: "unknown status " + string(status)}
	}

	var ruleText string
	if p.RRule != "" {
		rule, err := recurrence.ParseRule(p.RRule)
		if err != nil {
			return nil, err
		}
		ruleText = rule.String()
	}

	now := time.Now().UTC()
	ev := &Event{
		ID:          NewEventID(),
		CalendarID:  cal.ID,
		UID:         uuid.NewString(),
		Title:       p.Title,
		Description: p.Description,
		Location:    p.Location,
		Start:       start,
		End:         end,
		AllDay:      p.AllDay,
		Status:      status,
		RRule:       ruleText,
		Timezone:    tzName,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	a.logger.Debug("event created", "event_id", ev.ID, "calendar_id", cal.ID)
	return ev, nil
}

// EventChanges is a patch for UpdateEvent. Absent fields are left
// untouched; present fields replace the stored value after passing the
// same validation as CreateEvent.
type EventChanges struct {
	Title       mo.Option[string]
	Description mo.Option[string]
	Location    mo.Option[string]
	Start       mo.Option[time.Time]
	// End set to a nil pointer clears the event's end.
	End      mo.Option[*time.Time]
	AllDay   mo.Option[bool]
	Status   mo.Option[EventStatus]
	Timezone mo.Option[string]
	// RRule set to "" clears the recurrence rule.
	RRule mo.Option[string]
}

// UpdateEvent applies changes to existing and returns the successor
// event at the next version. The version check runs strictly first so
// a stale writer sees *VersionConflictError and never a misleading
// validation error. existing is not modified.
func (a *Aggregate) UpdateEvent(existing *Event, suppliedVersion int64, changes EventChanges) (*Event, error) {
	if err := CheckVersion(existing.Version, suppliedVersion); err != nil {
		a.logger.Debug("update rejected", "event_id", existing.ID, "err", err)
		return nil, err
	}

	updated := *existing

	if v, ok := changes.Title.Get(); ok {
		if strings.TrimSpace(v) == "" {
			return nil, &InvalidEventDataError{Reason: "title must not be blank"}
		}
		updated.Title = v
	}
	if v, ok := changes.Description.Get(); ok {
		updated.Description = v
	}
	if v, ok := changes.Location.Get(); ok {
		updated.Location = v
	}
	if v, ok := changes.Start.Get(); ok {
		updated.Start = v.UTC()
	}
	if v, ok := changes.End.Get(); ok {
		if v == nil {
			updated.End = nil
		} else {
			u := v.UTC()
			updated.End = &u
		}
	}
	if v, ok := changes.AllDay.Get(); ok {
		updated.AllDay = v
	}
	if v, ok := changes.Status.Get(); ok {
		if !v.Valid() {
			return nil, &InvalidEventDataError{Reason: "unknown status " + string(v)}
		}
		updated.Status = v
	}
	if v, ok := changes.Timezone.Get(); ok {
		if _, err := a.tz.Validate(v); err != nil {
			return nil, err
		}
		updated.Timezone = v
	}
	if v, ok := changes.RRule.Get(); ok {
		if v == "" {
			updated.RRule = ""
		} else {
			rule, err := recurrence.ParseRule(v)
			if err != nil {
				return nil, err
			}
			updated.RRule = rule.String()
		}
	}

	if updated.End != nil && updated.End.Before(updated.Start) {
		return nil, &InvalidEventDataError{Reason: "end must not be before start"}
	}

	updated.Version = NextVersion(existing.Version)
	updated.UpdatedAt = time.Now().UTC()
	a.logger.Debug("event updated", "event_id", updated.ID, "version", updated.Version)
	return &updated, nil
}

// DeleteEvent checks the supplied version and accepts the deletion.
// Deletion is terminal; once persistence removes the record, further
// operations surface as not-found from the collaborator's perspective.
func (a *Aggregate) DeleteEvent(existing *Event, suppliedVersion int64) error {
	if err := CheckVersion(existing.Version, suppliedVersion); err != nil {
		a.logger.Debug("delete rejected", "event_id", existing.ID, "err", err)
		return err
	}
	a.logger.Debug("event deleted", "event_id", existing.ID)
	return nil
}
