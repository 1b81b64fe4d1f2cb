// Package ics converts between domain events and their iCalendar
// (RFC 5545) representation. CalDAV and export collaborators use it at
// the boundary; the engine itself never touches wire formats.
package ics

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/televent/core/calendar"
)

const prodID = "-//televent//core//EN"

// Encode serializes ev as a single-event VCALENDAR document.
func Encode(ev *calendar.Event) ([]byte, error) {
	vevent := ical.NewEvent()
	props := vevent.Props

	props.SetText(ical.PropUID, ev.UID)
	props.SetText(ical.PropSummary, ev.Title)
	if ev.Description != "" {
		props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		props.SetText(ical.PropLocation, ev.Location)
	}
	props.SetText(ical.PropStatus, string(ev.Status))

	if ev.AllDay {
		props.SetDate(ical.PropDateTimeStart, ev.Start.UTC())
		if ev.End != nil {
			props.SetDate(ical.PropDateTimeEnd, ev.End.UTC())
		}
	} else {
		props.SetDateTime(ical.PropDateTimeStart, ev.Start.UTC())
		if ev.End != nil {
			props.SetDateTime(ical.PropDateTimeEnd, ev.End.UTC())
		}
	}

	// RRULE is a RECUR value, not TEXT; it must go out unescaped.
	if ev.RRule != "" {
		p := ical.NewProp(ical.PropRecurrenceRule)
		p.Value = ev.RRule
		props.Set(p)
	}

	// iCalendar SEQUENCE starts at 0 where the version counter starts
	// at 1.
	seq := ical.NewProp(ical.PropSequence)
	seq.Value = strconv.FormatInt(ev.Version-1, 10)
	props.Set(seq)

	props.SetDateTime(ical.PropDateTimeStamp, ev.UpdatedAt.UTC())
	if !ev.CreatedAt.IsZero() {
		props.SetDateTime(ical.PropCreated, ev.CreatedAt.UTC())
	}
	if !ev.UpdatedAt.IsZero() {
		props.SetDateTime(ical.PropLastModified, ev.UpdatedAt.UTC())
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Children = append(cal.Children, vevent.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode event %s: %w", ev.ID, err)
	}
	return buf.Bytes(), nil
}

// Decode parses the first VEVENT of an iCalendar document into a
// domain event. The event gets a fresh EventID; identity mapping
// (matching by UID, assigning the calendar) is the caller's job.
func Decode(data []byte) (*calendar.Event, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode calendar: %w", err)
	}

	var comp *ical.Component
	for _, child := range cal.Children {
		if child.Name == ical.CompEvent {
			comp = child
			break
		}
	}
	if comp == nil {
		return nil, fmt.Errorf("decode calendar: no VEVENT component")
	}

	ev := &calendar.Event{
		ID:       calendar.NewEventID(),
		Status:   calendar.StatusConfirmed,
		Timezone: "UTC",
		Version:  1,
	}

	if uid, err := comp.Props.Text(ical.PropUID); err == nil {
		ev.UID = uid
	}
	if summary, err := comp.Props.Text(ical.PropSummary); err == nil {
		ev.Title = summary
	}
	if desc, err := comp.Props.Text(ical.PropDescription); err == nil {
		ev.Description = desc
	}
	if loc, err := comp.Props.Text(ical.PropLocation); err == nil {
		ev.Location = loc
	}
	if status, err := comp.Props.Text(ical.PropStatus); err == nil && status != "" {
		s := calendar.EventStatus(strings.ToUpper(status))
		if s.Valid() {
			ev.Status = s
		}
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil, fmt.Errorf("decode event %s: missing DTSTART", ev.UID)
	}
	start, err := comp.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("decode event %s: DTSTART: %w", ev.UID, err)
	}
	ev.Start = start.UTC()
	if tzid := startProp.Params.Get(ical.ParamTimezoneID); tzid != "" {
		ev.Timezone = tzid
	}
	if v := startProp.Params.Get(ical.ParamValue); strings.EqualFold(v, "DATE") {
		ev.AllDay = true
	}

	if comp.Props.Get(ical.PropDateTimeEnd) != nil {
		end, err := comp.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("decode event %s: DTEND: %w", ev.UID, err)
		}
		u := end.UTC()
		ev.End = &u
	}

	if p := comp.Props.Get(ical.PropRecurrenceRule); p != nil {
		ev.RRule = p.Value
	}

	if p := comp.Props.Get(ical.PropSequence); p != nil {
		if seq, err := strconv.ParseInt(p.Value, 10, 64); err == nil && seq >= 0 {
			ev.Version = seq + 1
		}
	}

	if created, err := comp.Props.DateTime(ical.PropCreated, time.UTC); err == nil {
		ev.CreatedAt = created.UTC()
	}
	if modified, err := comp.Props.DateTime(ical.PropLastModified, time.UTC); err == nil {
		ev.UpdatedAt = modified.UTC()
	}

	return ev, nil
}
