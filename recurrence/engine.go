package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/televent/core/timezone"
)

// Window bounds an expansion to a half-open slice of time. A zero
// Start or End leaves that side unbounded. Window only truncates a
// sequence; it never extends a COUNT- or UNTIL-bounded one.
type Window struct {
	Start time.Time
	End   time.Time
}

// Unbounded reports whether the window places no upper bound on the
// expansion. Expanding a rule with neither COUNT nor UNTIL through an
// unbounded window yields an infinite sequence; the caller owns
// termination.
func (w Window) Unbounded() bool { return w.End.IsZero() }

// Engine expands recurrence rules into occurrence instants.
type Engine struct {
	tz *timezone.Service
}

// NewEngine creates a recurrence engine backed by the given timezone
// service.
func NewEngine(tz *timezone.Service) *Engine {
	return &Engine{tz: tz}
}

// Expand returns a lazy iterator over the UTC occurrence instants of
// rule, anchored at the given wall-clock time in zone.
//
// The cadence is walked in civil time and each candidate is converted
// to UTC afterwards, so a daily 09:00 event stays at 09:00 local across
// a DST boundary. Cadence steps with no matching day (for example
// BYMONTHDAY=31 in April) contribute nothing.
//
// The sequence ends at the rule's COUNT or UNTIL bound or at the window
// end, whichever comes first. Each call returns a fresh iterator
// positioned at the start of the sequence.
func (e *Engine) Expand(rule *Rule, anchor timezone.CivilTime, zone *timezone.Zone, window Window) *Expansion {
	opt := rule.opt

	// Pin the iteration to a neutral location: the rrule iterator then
	// produces pure civil candidates, untouched by zone normalization.
	opt.Dtstart = time.Date(anchor.Year, anchor.Month, anchor.Day,
		anchor.Hour, anchor.Minute, anchor.Second, 0, time.UTC)

	// UNTIL bounds the converted instants, not the civil candidates, so
	// it is enforced here rather than inside the rrule iterator.
	until := opt.Until
	opt.Until = time.Time{}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		// The rule was validated at parse time; an empty iterator is the
		// only sane fallback for an anchor rrule-go cannot handle.
		return &Expansion{done: true}
	}

	return &Expansion{
		next:   r.Iterator(),
		tz:     e.tz,
		zone:   zone,
		until:  until,
		window: window,
	}
}

// Expansion is a lazy, restartable sequence of occurrence instants.
// It is restartable in the sense that Engine.Expand rebuilds it from
// the rule each time; an Expansion itself only moves forward.
type Expansion struct {
	next   rrule.Next
	tz     *timezone.Service
	zone   *timezone.Zone
	until  time.Time
	window Window
	done   bool
}

// Next returns the next occurrence instant in UTC. ok is false once
// the sequence is exhausted.
func (x *Expansion) Next() (time.Time, bool) {
	for !x.done {
		c, ok := x.next()
		if !ok {
			x.done = true
			break
		}

		instant := x.tz.ToUTC(timezone.CivilOf(c), x.zone)

		if !x.until.IsZero() && instant.After(x.until) {
			x.done = true
			break
		}
		if !x.window.End.IsZero() && instant.After(x.window.End) {
			x.done = true
			break
		}
		if !x.window.Start.IsZero() && instant.Before(x.window.Start) {
			continue
		}
		return instant, true
	}
	return time.Time{}, false
}

// All drains the remaining sequence into a slice. The expansion must
// be bounded by COUNT, UNTIL or a window end; calling All on an
// unbounded expansion does not terminate.
func (x *Expansion) All() []time.Time {
	var out []time.Time
	for {
		t, ok := x.Next()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}
