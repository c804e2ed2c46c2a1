package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "freeslot/internal/log"
	"freeslot/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// ExpandConfig controls recurrence expansion.
type ExpandConfig struct {
	// RangeStart / RangeEnd define the half-open naive window [RangeStart,
	// RangeEnd); an occurrence is included when its [start, end) span
	// overlaps the window.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent is a safety cap against pathological rules.
	// Zero means defaultMaxOccurrencesPerEvent.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the expanded occurrences plus truncation info.
type ExpandResult struct {
	Occurrences []model.Occurrence
	// TruncatedEvents records UIDs that hit the MaxOccurrencesPerEvent cap.
	TruncatedEvents []string
}

// Naive strips t's UTC offset: the wall-clock reading is reinterpreted in
// UTC rather than converted. Events carrying a different zone than the
// working-hours convention are therefore silently misplaced. This matches
// the behavior this system was built to reproduce and is a known limitation;
// the configured timezone label is cosmetic only.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ExpandOccurrences expands ParsedEvents into concrete occurrences within
// the configured window. It handles:
//
//   - Single non-recurring events
//   - RRULE-based recurrence (DAILY/WEEKLY/MONTHLY/YEARLY, etc.)
//   - EXDATE for exception removal
//   - RECURRENCE-ID overrides
//   - All-day semantics ([00:00, next 00:00))
//
// All event timestamps are normalized via Naive before any comparison, so
// expansion and the window test operate on offset-stripped wall-clock time
// throughout.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	// Group base events and overrides by UID.
	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		} else {
			baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
		}
	}

	all := make([]model.Occurrence, 0)
	for uid, baseEvents := range baseByUID {
		ov := overridesByUID[uid]
		truncated := false

		for _, ev := range baseEvents {
			occ, hitCap := expandEvent(ev, ov, cfg)
			if hitCap {
				truncated = true
			}
			all = append(all, occ...)
		}

		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, uid)
			appLog.Error("expand: truncated occurrences for UID",
				errors.New("max occurrences reached"),
				"uid", uid,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
	}

	result.Occurrences = all
	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool) {
	if ev.RawRRule == "" {
		return expandSingleEvent(ev, overrides, cfg), false
	}
	return expandRecurringEvent(ev, overrides, cfg)
}

func expandSingleEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.Occurrence {
	var out []model.Occurrence

	start := Naive(ev.Start)
	end := Naive(ev.End)
	if ev.AllDay {
		start = midnightOf(start)
		end = start.Add(24 * time.Hour)
	}

	if !spansOverlap(start, end, cfg.RangeStart, cfg.RangeEnd) {
		return out
	}

	if o, ok := findOverrideForStart(overrides, start); ok {
		start = Naive(o.Start)
		end = Naive(o.End)
		ev = o
	}

	out = append(out, makeOccurrence(ev, start, end))
	return out
}

func expandRecurringEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Occurrence, bool) {
	out := make([]model.Occurrence, 0)
	hitCap := false

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return out, false
	}
	r.DTStart(Naive(ev.Start))

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(Naive(ex))
	}

	dur := Naive(ev.End).Sub(Naive(ev.Start))

	// Widen the query by the event duration so that occurrences starting
	// before RangeStart but still in progress are picked up, then filter
	// against the half-open window.
	occTimes := set.Between(cfg.RangeStart.Add(-dur), cfg.RangeEnd, true)
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	for _, occStart := range occTimes {
		var occEnd time.Time
		if ev.AllDay {
			occStart = midnightOf(occStart)
			occEnd = occStart.Add(24 * time.Hour)
		} else {
			occEnd = occStart.Add(dur)
		}

		if !spansOverlap(occStart, occEnd, cfg.RangeStart, cfg.RangeEnd) {
			continue
		}

		start := occStart
		end := occEnd
		baseEv := ev
		if o, ok := findOverrideForStart(overrides, occStart); ok {
			start = Naive(o.Start)
			end = Naive(o.End)
			baseEv = o
		}

		out = append(out, makeOccurrence(baseEv, start, end))
	}

	return out, hitCap
}

// findOverrideForStart finds an override whose RECURRENCE-ID matches the
// given naive occurrence start with exact time equality.
func findOverrideForStart(overrides []ParsedEvent, occStart time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence == nil {
			continue
		}
		if Naive(*ov.Recurrence).Equal(occStart) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

// makeOccurrence converts a (possibly overridden) ParsedEvent plus concrete
// naive start/end times into a model.Occurrence.
func makeOccurrence(ev ParsedEvent, start, end time.Time) model.Occurrence {
	return model.Occurrence{
		SourceID:    ev.Source.ID,
		UID:         ev.UID,
		InstanceKey: start.Format(time.RFC3339Nano),
		Summary:     ev.Summary,
		Location:    ev.Location,
		AllDay:      ev.AllDay,
		Start:       start,
		End:         end,
	}
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// spansOverlap reports whether [aStart, aEnd) overlaps [bStart, bEnd).
func spansOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
