// Package timezone validates IANA timezone identifiers and converts
// between UTC instants and civil (wall-clock) times, DST-aware.
package timezone

import (
	"fmt"
	"sync"
	"time"
)

// CivilTime is a wall-clock date/time without a UTC offset. It is only
// meaningful paired with a Zone.
type CivilTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// CivilOf extracts the wall-clock fields of t in its own location.
func CivilOf(t time.Time) CivilTime {
	return CivilTime{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

func (c CivilTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
}

// Zone is a validated IANA timezone.
type Zone struct {
	name string
	loc  *time.Location
}

// Name returns the IANA identifier, e.g. "Europe/Berlin".
func (z *Zone) Name() string { return z.name }

// Location returns the underlying time.Location.
func (z *Zone) Location() *time.Location { return z.loc }

func (z *Zone) String() string { return z.name }

// InvalidZoneError reports a timezone identifier that is not a
// recognized IANA zone name.
type InvalidZoneError struct {
	Name string
}

func (e *InvalidZoneError) Error() string {
	return fmt.Sprintf("invalid timezone: %s", e.Name)
}

// Service validates timezone identifiers and performs UTC/civil
// conversions. It is stateless apart from an internal cache of loaded
// zone data; zone data itself is immutable for the process lifetime.
type Service struct {
	mu    sync.RWMutex
	zones map[string]*Zone
}

// NewService creates a timezone service.
func NewService() *Service {
	return &Service{zones: make(map[string]*Zone)}
}

// Validate checks that name is a recognized IANA zone identifier and
// returns the canonical Zone. Zone data is loaded once and cached.
func (s *Service) Validate(name string) (*Zone, error) {
	if name == "" || name == "Local" {
		return nil, &InvalidZoneError{Name: name}
	}

	s.mu.RLock()
	z, ok := s.zones[name]
	s.mu.RUnlock()
	if ok {
		return z, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &InvalidZoneError{Name: name}
	}

	z = &Zone{name: name, loc: loc}
	s.mu.Lock()
	s.zones[name] = z
	s.mu.Unlock()
	return z, nil
}

// ToUTC converts a wall-clock time in zone to a UTC instant.
//
// DST resolution is deterministic: a repeated wall time (fall-back
// overlap) maps to the earlier of the two valid instants; a wall time
// inside a spring-forward gap maps to the first valid instant after the
// gap, i.e. the transition instant itself.
func (s *Service) ToUTC(c CivilTime, zone *Zone) time.Time {
	loc := zone.loc

	// Treat the wall-clock fields as if they were UTC; subtracting a
	// candidate zone offset then yields a candidate instant.
	nominal := time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC)

	// The offsets in effect a day either side of the nominal time
	// bracket any transition close enough to matter.
	_, offBefore := nominal.Add(-24 * time.Hour).In(loc).Zone()
	_, offAfter := nominal.Add(24 * time.Hour).In(loc).Zone()

	offsets := []int{offBefore}
	if offAfter != offBefore {
		offsets = append(offsets, offAfter)
	}

	var candidates []time.Time
	for _, off := range offsets {
		u := nominal.Add(-time.Duration(off) * time.Second)
		if CivilOf(u.In(loc)) == c {
			candidates = append(candidates, u)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0]
	case 2:
		if candidates[1].Before(candidates[0]) {
			return candidates[1]
		}
		return candidates[0]
	}

	// No candidate round-trips: the wall time falls inside a
	// spring-forward gap. Interpreting it with the pre-transition offset
	// lands just past the transition; the start of that zone interval is
	// the first valid instant.
	u := nominal.Add(-time.Duration(offBefore) * time.Second).In(loc)
	start, _ := u.ZoneBounds()
	return start.UTC()
}

// ToCivil converts a UTC instant to the wall-clock time in zone. It is
// total: every instant has exactly one civil representation.
func (s *Service) ToCivil(t time.Time, zone *Zone) CivilTime {
	return CivilOf(t.In(zone.loc))
}
