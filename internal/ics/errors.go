package ics

// FetchError reports that the calendar source could not be retrieved over
// HTTP (network failure, timeout, or non-OK status with no usable cache).
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return "ics fetch " + redactURL(e.URL) + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that a fetched payload is not a well-formed iCalendar
// document.
type ParseError struct {
	SourceID string
	Err      error
}

func (e *ParseError) Error() string {
	return "ics parse " + e.SourceID + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
