package ics

import (
	"context"
	"time"

	"freeslot/internal/model"
)

// Document is an immutable parsed calendar. It is loaded once per query;
// per-day instance extraction re-runs only the cheap expansion step against
// the already-parsed events.
type Document struct {
	Source    Source
	FromCache bool

	events []ParsedEvent
}

// Load fetches and parses the calendar source. It returns a *FetchError when
// the payload cannot be retrieved and a *ParseError when it is not a
// well-formed iCalendar document.
func Load(ctx context.Context, f *Fetcher, src Source) (*Document, error) {
	res, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	events, err := ParseICS(res.Source, res.Body)
	if err != nil {
		return nil, err
	}
	return &Document{
		Source:    res.Source,
		FromCache: res.FromCache,
		events:    events,
	}, nil
}

// NewDocument builds a Document directly from parsed events. Intended for
// callers that obtain the payload out of band.
func NewDocument(src Source, events []ParsedEvent) *Document {
	return &Document{Source: src, events: append([]ParsedEvent(nil), events...)}
}

// InstancesBetween expands the document's events into concrete naive
// occurrences whose [start, end) span overlaps the half-open window
// [rangeStart, rangeEnd).
func (d *Document) InstancesBetween(rangeStart, rangeEnd time.Time) ([]model.Occurrence, error) {
	res, err := ExpandOccurrences(d.events, ExpandConfig{
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	})
	if err != nil {
		return nil, err
	}
	return res.Occurrences, nil
}

// EventCount returns the number of parsed VEVENTs (overrides included).
func (d *Document) EventCount() int {
	return len(d.events)
}
