package calendar

import "time"

const (
	// TimestampLayout is the wire format of every record timestamp, e.g. "03/14/2024 9:05AM".
	TimestampLayout = "01/02/2006 3:04PM"
	// DateLayout selects a day, e.g. the week query parameter.
	DateLayout = "01/02/2006"
)

// ParseTimestamp parses s strictly: FormatTimestamp of the result is s.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Err: err}
	}
	// time.Parse tolerates "09:05AM" and "0:05AM"; neither round-trips.
	if t.Format(TimestampLayout) != s {
		return time.Time{}, &ParseError{Value: s, Err: errNonCanonical}
	}
	return t, nil
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseDate parses a MM/DD/YYYY day into the naive frame.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Err: err}
	}
	return t, nil
}

// Naive moves t into the naive frame, keeping its wall clock in its own location.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
