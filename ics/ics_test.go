package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/televent/core/calendar"
)

func testEvent() *calendar.Event {
	start := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	return &calendar.Event{
		ID:          calendar.NewEventID(),
		CalendarID:  calendar.NewCalendarID(),
		UID:         "4c0e1e4e-0001-4e4e-9e4e-000000000001",
		Title:       "Weekly sync",
		Description: "Agenda: everything",
		Location:    "Room 2",
		Start:       start,
		End:         &end,
		Status:      calendar.StatusConfirmed,
		RRule:       "FREQ=WEEKLY;BYDAY=TU,TH",
		Timezone:    "Europe/Berlin",
		Version:     3,
		CreatedAt:   start.Add(-48 * time.Hour),
		UpdatedAt:   start.Add(-24 * time.Hour),
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(testEvent())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "BEGIN:VEVENT")
	assert.Contains(t, text, "UID:4c0e1e4e-0001-4e4e-9e4e-000000000001")
	assert.Contains(t, text, "SUMMARY:Weekly sync")
	assert.Contains(t, text, "DTSTART:20260210T140000Z")
	assert.Contains(t, text, "DTEND:20260210T150000Z")
	assert.Contains(t, text, "STATUS:CONFIRMED")
	// RRULE is a RECUR value; the comma must not be escaped.
	assert.Contains(t, text, "RRULE:FREQ=WEEKLY;BYDAY=TU,TH")
	// Version 3 maps to SEQUENCE 2.
	assert.Contains(t, text, "SEQUENCE:2")
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	src := testEvent()

	data, err := Encode(src)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, src.UID, got.UID)
	assert.Equal(t, src.Title, got.Title)
	assert.Equal(t, src.Description, got.Description)
	assert.Equal(t, src.Location, got.Location)
	assert.Equal(t, src.Status, got.Status)
	assert.Equal(t, src.RRule, got.RRule)
	assert.Equal(t, src.Version, got.Version)
	assert.True(t, got.Start.Equal(src.Start))
	require.NotNil(t, got.End)
	assert.True(t, got.End.Equal(*src.End))
}

func TestDecode_MinimalEvent(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//test//EN",
		"BEGIN:VEVENT",
		"UID:minimal-1",
		"DTSTAMP:20260101T000000Z",
		"DTSTART:20260315T090000Z",
		"SUMMARY:Minimal",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	got, err := Decode([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "minimal-1", got.UID)
	assert.Equal(t, "Minimal", got.Title)
	assert.Equal(t, calendar.StatusConfirmed, got.Status)
	assert.Equal(t, "UTC", got.Timezone)
	assert.Equal(t, int64(1), got.Version)
	assert.Nil(t, got.End)
	assert.False(t, got.AllDay)
}

func TestDecode_NoEvent(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//test//EN",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	_, err := Decode([]byte(raw))
	require.Error(t, err)
}

func TestETag(t *testing.T) {
	a := ETag([]byte("event data"))
	b := ETag([]byte("event data"))
	c := ETag([]byte("different data"))

	assert.Equal(t, a, b, "equal content yields equal tags")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "sha256 hex")
}
