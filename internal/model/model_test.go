package model

import (
	"testing"
	"time"
)

var day = time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC)

func iv(startHour, endHour int) Interval {
	return Interval{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv(9, 10), iv(11, 12), false},
		{"touching", iv(9, 10), iv(10, 11), false},
		{"partial", iv(9, 11), iv(10, 12), true},
		{"contained", iv(9, 17), iv(12, 13), true},
		{"identical", iv(9, 10), iv(9, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps (reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	if got := iv(9, 17).Duration(); got != 8*time.Hour {
		t.Errorf("Duration = %v, want 8h", got)
	}
}

func TestIntervalIsZero(t *testing.T) {
	if !(Interval{}).IsZero() {
		t.Error("empty Interval should be zero")
	}
	if iv(9, 10).IsZero() {
		t.Error("non-empty Interval reported zero")
	}
}

func TestFreeTimesByDateLookup(t *testing.T) {
	ft := FreeTimesByDate{
		{Date: day, Free: []Interval{iv(9, 17)}},
		{Date: day.AddDate(0, 0, 1), Free: nil},
	}

	free, ok := ft.Lookup(day)
	if !ok || len(free) != 1 {
		t.Errorf("Lookup(day) = %v, %v", free, ok)
	}

	// Time-of-day in the key must not matter.
	free, ok = ft.Lookup(day.Add(15 * time.Hour))
	if !ok || len(free) != 1 {
		t.Errorf("Lookup(day 15:00) = %v, %v", free, ok)
	}

	// Fully booked days are present with an empty slot list.
	free, ok = ft.Lookup(day.AddDate(0, 0, 1))
	if !ok || len(free) != 0 {
		t.Errorf("Lookup(booked day) = %v, %v", free, ok)
	}

	if _, ok := ft.Lookup(day.AddDate(0, 0, 2)); ok {
		t.Error("Lookup(out of range) should report absent")
	}
}
