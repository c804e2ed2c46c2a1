package freetime

import (
	"errors"
	"fmt"
	"time"
)

// InvalidRangeError reports a start date after the end date.
type InvalidRangeError struct {
	StartDate time.Time
	EndDate   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("start date %s is after end date %s",
		e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"))
}

// InvalidWorkingHoursError reports an unusable working window.
type InvalidWorkingHoursError struct {
	StartHour int
	EndHour   int
}

func (e *InvalidWorkingHoursError) Error() string {
	return fmt.Sprintf("working hours %d-%d are invalid: need 0 <= start < end <= 24",
		e.StartHour, e.EndHour)
}

// Validate checks the query preconditions. Validation is the caller's
// responsibility; Compute does not re-check.
func (p Params) Validate() error {
	if midnightOf(p.StartDate).After(midnightOf(p.EndDate)) {
		return &InvalidRangeError{StartDate: p.StartDate, EndDate: p.EndDate}
	}
	if p.WorkStartHour < 0 || p.WorkEndHour > 24 || p.WorkStartHour >= p.WorkEndHour {
		return &InvalidWorkingHoursError{StartHour: p.WorkStartHour, EndHour: p.WorkEndHour}
	}
	if p.BufferBefore < 0 || p.BufferAfter < 0 {
		return errors.New("buffer durations must be non-negative")
	}
	return nil
}
