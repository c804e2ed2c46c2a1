package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoadAndInstancesBetween(t *testing.T) {
	body := icsPayload(
		"BEGIN:VEVENT",
		"UID:standup@example.com",
		"DTSTART:20260601T090000Z",
		"DTEND:20260601T093000Z",
		"RRULE:FREQ=DAILY;COUNT=10",
		"SUMMARY:Standup",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:oneoff@example.com",
		"DTSTART:20260603T140000Z",
		"DTEND:20260603T150000Z",
		"SUMMARY:Review",
		"END:VEVENT",
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	doc, err := Load(context.Background(), f, Source{ID: "test", URL: srv.URL})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if doc.EventCount() != 2 {
		t.Errorf("EventCount = %d, want 2", doc.EventCount())
	}

	occs, err := doc.InstancesBetween(
		time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("InstancesBetween error: %v", err)
	}
	// One standup occurrence plus the one-off review.
	if len(occs) != 2 {
		t.Fatalf("got %d occurrences, want 2: %+v", len(occs), occs)
	}
	for _, occ := range occs {
		if occ.Start.Day() != 3 {
			t.Errorf("occurrence outside window: %+v", occ)
		}
	}
}

func TestLoadSurfacesFetchError(t *testing.T) {
	f := NewFetcher(t.TempDir())
	_, err := Load(context.Background(), f, Source{ID: "test", URL: "http://127.0.0.1:1/feed.ics"})
	if err == nil {
		t.Fatal("expected error for unreachable source")
	}
	if _, ok := err.(*FetchError); !ok {
		t.Errorf("err = %T, want *FetchError", err)
	}
}
