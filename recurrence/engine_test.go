package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/televent/core/timezone"
)

func newTestEngine(t *testing.T) (*Engine, *timezone.Service) {
	t.Helper()
	tz := timezone.NewService()
	return NewEngine(tz), tz
}

func mustZone(t *testing.T, tz *timezone.Service, name string) *timezone.Zone {
	t.Helper()
	zone, err := tz.Validate(name)
	require.NoError(t, err)
	return zone
}

func TestEngine_Expand_DailyAcrossDSTBoundary(t *testing.T) {
	eng, tz := newTestEngine(t)
	ny := mustZone(t, tz, "America/New_York")

	// Daily 09:00 New York starting the day before the 2024-03-10
	// spring-forward. The wall clock stays at 09:00 local; the UTC
	// offset shifts by an hour after the transition.
	rule := mustParse(t, "FREQ=DAILY;COUNT=3")
	anchor := timezone.CivilTime{Year: 2024, Month: time.March, Day: 9, Hour: 9}

	got := eng.Expand(rule, anchor, ny, Window{}).All()

	want := []time.Time{
		time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 11, 13, 0, 0, 0, time.UTC),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "occurrence %d: got %v, want %v", i, got[i], want[i])
	}
}

func TestEngine_Expand_MonthDay31SkipsShortMonths(t *testing.T) {
	eng, tz := newTestEngine(t)
	utc := mustZone(t, tz, "UTC")

	rule := mustParse(t, "FREQ=MONTHLY;BYMONTHDAY=31")
	anchor := timezone.CivilTime{Year: 2024, Month: time.January, Day: 31, Hour: 10}
	window := Window{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	got := eng.Expand(rule, anchor, utc, window).All()

	// February, April and June have no 31st; those cadence steps
	// contribute nothing.
	want := []time.Time{
		time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "occurrence %d: got %v, want %v", i, got[i], want[i])
	}
}

func TestEngine_Expand_CountIsExactRegardlessOfWindow(t *testing.T) {
	eng, tz := newTestEngine(t)
	utc := mustZone(t, tz, "UTC")

	rule := mustParse(t, "FREQ=DAILY;COUNT=4")
	anchor := timezone.CivilTime{Year: 2026, Month: time.January, Day: 1, Hour: 10}

	// A window far wider than the rule needs must not extend the
	// sequence past COUNT.
	wide := Window{End: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Len(t, eng.Expand(rule, anchor, utc, wide).All(), 4)

	// A narrow window only truncates.
	narrow := Window{End: time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)}
	assert.Len(t, eng.Expand(rule, anchor, utc, narrow).All(), 2)
}

func TestEngine_Expand_WindowStartSkipsEarlyOccurrences(t *testing.T) {
	eng, tz := newTestEngine(t)
	utc := mustZone(t, tz, "UTC")

	rule := mustParse(t, "FREQ=DAILY;COUNT=10")
	anchor := timezone.CivilTime{Year: 2026, Month: time.January, Day: 1, Hour: 10}
	window := Window{
		Start: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
	}

	got := eng.Expand(rule, anchor, utc, window).All()

	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Day())
	assert.Equal(t, 5, got[1].Day())
}

func TestEngine_Expand_UntilIsInclusive(t *testing.T) {
	eng, tz := newTestEngine(t)
	utc := mustZone(t, tz, "UTC")

	rule := mustParse(t, "FREQ=DAILY;UNTIL=20260103T100000Z")
	anchor := timezone.CivilTime{Year: 2026, Month: time.January, Day: 1, Hour: 10}

	got := eng.Expand(rule, anchor, utc, Window{}).All()

	require.Len(t, got, 3)
	assert.True(t, got[2].Equal(time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)))
}

func TestEngine_Expand_Restartable(t *testing.T) {
	eng, tz := newTestEngine(t)
	berlin := mustZone(t, tz, "Europe/Berlin")

	rule := mustParse(t, "FREQ=WEEKLY;BYDAY=MO,WE;COUNT=6")
	anchor := timezone.CivilTime{Year: 2026, Month: time.January, Day: 5, Hour: 8, Minute: 30}

	first := eng.Expand(rule, anchor, berlin, Window{}).All()
	second := eng.Expand(rule, anchor, berlin, Window{}).All()

	require.Len(t, first, 6)
	assert.Equal(t, first, second)
}

func TestEngine_Expand_LazyIteration(t *testing.T) {
	eng, tz := newTestEngine(t)
	utc := mustZone(t, tz, "UTC")

	// No COUNT, no UNTIL, unbounded window: the sequence is infinite,
	// but the iterator only does work per Next call.
	rule := mustParse(t, "FREQ=DAILY")
	anchor := timezone.CivilTime{Year: 2026, Month: time.January, Day: 1, Hour: 10}

	exp := eng.Expand(rule, anchor, utc, Window{})
	for i := 0; i < 5; i++ {
		occ, ok := exp.Next()
		require.True(t, ok)
		assert.Equal(t, 1+i, occ.Day())
	}
}
