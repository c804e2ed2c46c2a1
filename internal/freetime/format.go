package freetime

import (
	"fmt"
	"strings"
	"time"

	"freeslot/internal/model"
)

// FormatClock renders a naive time compactly in 12-hour form: the hour
// without a leading zero, minutes omitted when zero, and the lowercase first
// letter of AM/PM. Examples: "9a", "10:30a", "12p", "4:05p".
func FormatClock(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "a"
	if t.Hour() >= 12 {
		ampm = "p"
	}
	if m := t.Minute(); m != 0 {
		return fmt.Sprintf("%d:%02d%s", hour, m, ampm)
	}
	return fmt.Sprintf("%d%s", hour, ampm)
}

// FormatSlot renders a free interval as "start-end", e.g. "9a-12p".
func FormatSlot(iv model.Interval) string {
	return FormatClock(iv.Start) + "-" + FormatClock(iv.End)
}

// FormatSlots joins a day's free intervals with ", ".
func FormatSlots(slots []model.Interval) string {
	parts := make([]string, 0, len(slots))
	for _, iv := range slots {
		parts = append(parts, FormatSlot(iv))
	}
	return strings.Join(parts, ", ")
}

// FormatDate renders a date as "M/D (Wkd)", e.g. "6/12 (Thu)".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d (%s)", int(t.Month()), t.Day(), t.Weekday().String()[:3])
}

// FormatDay renders one result line for a day. label is a display-only
// timezone tag appended after the slots; it plays no part in computation.
func FormatDay(day model.DayFreeTimes, label string) string {
	if len(day.Free) == 0 {
		return FormatDate(day.Date) + ": No free time slots available"
	}
	line := FormatDate(day.Date) + ": " + FormatSlots(day.Free)
	if label != "" {
		line += " " + label
	}
	return line
}
