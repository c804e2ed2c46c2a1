package model

import "time"

// Interval is a span of naive (offset-stripped) time. Start <= End is an
// invariant maintained by producers; a zero-length interval is representable
// but the free-time engine never emits one.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps reports whether iv and other share more than a boundary point.
// Intervals that merely touch (iv.End == other.Start) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// IsZero reports whether the interval is uninitialized.
func (iv Interval) IsZero() bool {
	return iv.Start.IsZero() && iv.End.IsZero()
}

// Occurrence is a single concrete instance of a calendar event, after
// recurrence expansion and offset stripping. Immutable once produced.
type Occurrence struct {
	SourceID string // calendar source ID
	UID      string // iCalendar UID

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, derived from the naive start time.
	InstanceKey string

	Summary  string
	Location string

	AllDay bool

	// Start / End are naive: the event's wall clock reinterpreted in UTC.
	Start time.Time
	End   time.Time
}

// Span returns the occurrence's busy interval without buffer padding.
func (o Occurrence) Span() Interval {
	return Interval{Start: o.Start, End: o.End}
}

// DayFreeTimes holds one day's free intervals. Date is midnight of the
// calendar day; Free is ordered by start time, non-overlapping, and always
// contained in the day's working window. An empty Free means fully booked.
type DayFreeTimes struct {
	Date time.Time
	Free []Interval
}

// FreeTimesByDate is the per-day result of a free-time query, ordered
// chronologically over the requested date range. Every date in the range is
// present, including fully booked ones.
type FreeTimesByDate []DayFreeTimes

// Lookup returns the free intervals for the given calendar day.
func (ft FreeTimesByDate) Lookup(date time.Time) ([]Interval, bool) {
	y, m, d := date.Date()
	for _, day := range ft {
		dy, dm, dd := day.Date.Date()
		if dy == y && dm == m && dd == d {
			return day.Free, true
		}
	}
	return nil, false
}
