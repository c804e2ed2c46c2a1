package ics

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSource = Source{ID: "test", URL: "https://calendar.example.com/private/feed.ics"}

func icsPayload(lines ...string) []byte {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//freeslot//test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return []byte(strings.Join(all, "\r\n") + "\r\n")
}

func TestParseSimpleEvent(t *testing.T) {
	body := icsPayload(
		"BEGIN:VEVENT",
		"UID:one@example.com",
		"DTSTART:20260611T120000Z",
		"DTEND:20260611T130000Z",
		"SUMMARY:Lunch sync",
		"LOCATION:Room 4",
		"END:VEVENT",
	)

	events, err := ParseICS(testSource, body)
	if err != nil {
		t.Fatalf("ParseICS error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.UID != "one@example.com" {
		t.Errorf("UID = %q", ev.UID)
	}
	if ev.Summary != "Lunch sync" || ev.Location != "Room 4" {
		t.Errorf("Summary/Location = %q/%q", ev.Summary, ev.Location)
	}
	wantStart := time.Date(2026, 6, 11, 12, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", ev.Start, wantStart)
	}
	if !ev.End.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("End = %v", ev.End)
	}
	if ev.AllDay || ev.RawRRule != "" || ev.IsOverride {
		t.Errorf("unexpected flags: allday=%v rrule=%q override=%v", ev.AllDay, ev.RawRRule, ev.IsOverride)
	}
}

func TestParseRecurringEventWithExDate(t *testing.T) {
	body := icsPayload(
		"BEGIN:VEVENT",
		"UID:standup@example.com",
		"DTSTART:20260601T090000Z",
		"DTEND:20260601T091500Z",
		"RRULE:FREQ=DAILY;COUNT=10",
		"EXDATE:20260603T090000Z,20260605T090000Z",
		"SUMMARY:Standup",
		"END:VEVENT",
	)

	events, err := ParseICS(testSource, body)
	if err != nil {
		t.Fatalf("ParseICS error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if ev.RawRRule != "FREQ=DAILY;COUNT=10" {
		t.Errorf("RawRRule = %q", ev.RawRRule)
	}
	if len(ev.ExDates) != 2 {
		t.Fatalf("ExDates = %v, want 2 entries", ev.ExDates)
	}
	want := time.Date(2026, 6, 3, 9, 0, 0, 0, time.UTC)
	if !ev.ExDates[0].Equal(want) {
		t.Errorf("ExDates[0] = %v, want %v", ev.ExDates[0], want)
	}
}

func TestParseAllDayEvent(t *testing.T) {
	body := icsPayload(
		"BEGIN:VEVENT",
		"UID:holiday@example.com",
		"DTSTART;VALUE=DATE:20260611",
		"DTEND;VALUE=DATE:20260612",
		"SUMMARY:Holiday",
		"END:VEVENT",
	)

	events, err := ParseICS(testSource, body)
	if err != nil {
		t.Fatalf("ParseICS error: %v", err)
	}
	if len(events) != 1 || !events[0].AllDay {
		t.Fatalf("all-day not detected: %+v", events)
	}
}

func TestParseRecurrenceOverride(t *testing.T) {
	body := icsPayload(
		"BEGIN:VEVENT",
		"UID:standup@example.com",
		"DTSTART:20260602T140000Z",
		"DTEND:20260602T141500Z",
		"RECURRENCE-ID:20260602T090000Z",
		"SUMMARY:Standup (moved)",
		"END:VEVENT",
	)

	events, err := ParseICS(testSource, body)
	if err != nil {
		t.Fatalf("ParseICS error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if !ev.IsOverride || ev.Recurrence == nil {
		t.Fatalf("override not detected: %+v", ev)
	}
	want := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)
	if !ev.Recurrence.Equal(want) {
		t.Errorf("Recurrence = %v, want %v", ev.Recurrence, want)
	}
}

func TestParseSkipsEventWithoutUID(t *testing.T) {
	body := icsPayload(
		"BEGIN:VEVENT",
		"DTSTART:20260611T120000Z",
		"DTEND:20260611T130000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:keep@example.com",
		"DTSTART:20260611T140000Z",
		"DTEND:20260611T150000Z",
		"END:VEVENT",
	)

	events, err := ParseICS(testSource, body)
	if err != nil {
		t.Fatalf("ParseICS error: %v", err)
	}
	if len(events) != 1 || events[0].UID != "keep@example.com" {
		t.Errorf("events = %+v, want only keep@example.com", events)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseICS(testSource, []byte("this is not a calendar\r\n"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

func TestParseRejectsEmptyBody(t *testing.T) {
	_, err := ParseICS(testSource, nil)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}
