// Package freetime computes unscheduled intervals within a daily working
// window by subtracting (possibly buffered) calendar event instances.
package freetime

import (
	"time"

	appLog "freeslot/internal/log"
	"freeslot/internal/model"
)

// Calendar yields concrete event instances overlapping a half-open naive
// time window. *ics.Document satisfies this.
type Calendar interface {
	InstancesBetween(rangeStart, rangeEnd time.Time) ([]model.Occurrence, error)
}

// Params are the caller-supplied knobs of one free-time query. Callers must
// run Validate before Compute; Compute itself assumes validated input.
type Params struct {
	// StartDate / EndDate bound the inclusive date range. Only the calendar
	// day matters; any time-of-day component is truncated.
	StartDate time.Time
	EndDate   time.Time

	// WorkStartHour / WorkEndHour bound the daily working window as integer
	// hours of day, 0 <= start < end <= 24.
	WorkStartHour int
	WorkEndHour   int

	// BufferBefore / BufferAfter pad every event's span before subtraction.
	BufferBefore time.Duration
	BufferAfter  time.Duration
}

// Compute returns, for every date in [StartDate, EndDate], the ordered list
// of free intervals inside that day's working window after subtracting all
// buffered event instances.
//
// Recurrence is expanded once over the whole range and the resulting
// occurrences are bucketed per overlapping day, which is output-identical to
// re-expanding per day but fetches and expands only once.
func Compute(cal Calendar, p Params) (model.FreeTimesByDate, error) {
	rangeStart := midnightOf(p.StartDate)
	rangeEnd := midnightOf(p.EndDate).AddDate(0, 0, 1)

	occurrences, err := cal.InstancesBetween(rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}

	byDay := bucketByDay(occurrences, rangeStart, rangeEnd)

	days := int(rangeEnd.Sub(rangeStart).Hours() / 24)
	out := make(model.FreeTimesByDate, 0, days)

	for day := rangeStart; day.Before(rangeEnd); day = day.AddDate(0, 0, 1) {
		window := model.Interval{
			Start: day.Add(time.Duration(p.WorkStartHour) * time.Hour),
			End:   day.Add(time.Duration(p.WorkEndHour) * time.Hour),
		}

		free := []model.Interval{window}
		for _, occ := range byDay[day] {
			busy := model.Interval{
				Start: occ.Start.Add(-p.BufferBefore),
				End:   occ.End.Add(p.BufferAfter),
			}
			free = subtract(free, busy)
		}

		out = append(out, model.DayFreeTimes{Date: day, Free: free})
	}

	appLog.Debug("free times computed",
		"days", days,
		"occurrences", len(occurrences),
	)
	return out, nil
}

// subtract removes busy from every slot in free, replacing an overlapped
// slot with zero, one, or two sub-intervals. Boundaries are strict: a busy
// span that merely touches a slot (busy.End == slot.Start or busy.Start ==
// slot.End) leaves it intact, and degenerate zero-length pieces are never
// emitted. Relative order is preserved, so the result stays sorted and
// non-overlapping without a re-sort.
func subtract(free []model.Interval, busy model.Interval) []model.Interval {
	kept := make([]model.Interval, 0, len(free)+1)
	for _, slot := range free {
		if !busy.Start.Before(slot.End) || !busy.End.After(slot.Start) {
			// Busy span outside this slot; keep it unchanged.
			kept = append(kept, slot)
			continue
		}
		if busy.Start.After(slot.Start) {
			kept = append(kept, model.Interval{Start: slot.Start, End: busy.Start})
		}
		if busy.End.Before(slot.End) {
			kept = append(kept, model.Interval{Start: busy.End, End: slot.End})
		}
	}
	return kept
}

// bucketByDay assigns each occurrence to every day of [rangeStart, rangeEnd)
// its [start, end) span overlaps, keyed by the day's midnight.
func bucketByDay(occurrences []model.Occurrence, rangeStart, rangeEnd time.Time) map[time.Time][]model.Occurrence {
	byDay := make(map[time.Time][]model.Occurrence)
	for _, occ := range occurrences {
		last := occ.End
		if !last.After(occ.Start) {
			// A zero-length occurrence still belongs to the day it sits on.
			last = occ.Start.Add(time.Nanosecond)
		}
		day := midnightOf(occ.Start)
		if day.Before(rangeStart) {
			day = rangeStart
		}
		for ; day.Before(rangeEnd) && day.Before(last); day = day.AddDate(0, 0, 1) {
			byDay[day] = append(byDay[day], occ)
		}
	}
	return byDay
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
