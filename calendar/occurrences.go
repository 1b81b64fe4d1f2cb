package calendar

import (
	"time"

	"github.com/televent/core/recurrence"
)

// Occurrences returns the lazy sequence of concrete occurrences of ev
// inside window.
//
// A non-recurring event yields exactly one occurrence, its own
// (start, end), if it intersects the window. A recurring event is
// expanded by the recurrence engine anchored at the event's start in
// its own timezone; every yielded start is paired with start plus the
// event's original duration.
//
// The sequence is recomputed from the event on every call, so equal
// inputs always yield equal sequences. Unbounded rules must be given a
// bounded window or the sequence never ends.
func (a *Aggregate) Occurrences(ev *Event, window recurrence.Window) (*OccurrenceIter, error) {
	zone, err := a.tz.Validate(ev.Timezone)
	if err != nil {
		return nil, err
	}

	if !ev.Recurring() {
		end := ev.Start
		if ev.End != nil {
			end = *ev.End
		}
		it := &OccurrenceIter{}
		if intersects(ev.Start, end, window) {
			it.single = &Occurrence{EventID: ev.ID, Start: ev.Start, End: end}
		}
		return it, nil
	}

	rule, err := recurrence.ParseRule(ev.RRule)
	if err != nil {
		return nil, err
	}

	anchor := a.tz.ToCivil(ev.Start, zone)
	return &OccurrenceIter{
		eventID:  ev.ID,
		duration: ev.Duration(),
		exp:      a.rec.Expand(rule, anchor, zone, window),
	}, nil
}

// intersects applies the usual overlap test, treating zero window
// bounds as unbounded.
func intersects(start, end time.Time, w recurrence.Window) bool {
	if !w.End.IsZero() && start.After(w.End) {
		return false
	}
	if !w.Start.IsZero() && end.Before(w.Start) {
		return false
	}
	return true
}

// OccurrenceIter is a lazy iterator over an event's occurrences.
type OccurrenceIter struct {
	single   *Occurrence
	eventID  EventID
	duration time.Duration
	exp      *recurrence.Expansion
}

// Next returns the next occurrence; ok is false once the sequence is
// exhausted.
func (it *OccurrenceIter) Next() (Occurrence, bool) {
	if it.single != nil {
		occ := *it.single
		it.single = nil
		return occ, true
	}
	if it.exp == nil {
		return Occurrence{}, false
	}
	start, ok := it.exp.Next()
	if !ok {
		return Occurrence{}, false
	}
	return Occurrence{
		EventID: it.eventID,
		Start:   start,
		End:     start.Add(it.duration),
	}, true
}

// All drains the remaining occurrences into a slice. The underlying
// expansion must be bounded.
func (it *OccurrenceIter) All() []Occurrence {
	var out []Occurrence
	for {
		occ, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, occ)
	}
}
