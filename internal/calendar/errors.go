package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestamp is matched by every *ParseError.
	ErrInvalidTimestamp = errors.New("calendar: invalid timestamp")
	// ErrUnknownRecordKind is returned for a group tag outside the known kinds.
	ErrUnknownRecordKind = errors.New("calendar: unknown record kind")
	// ErrRecordKindMismatch is returned when a record's variant disagrees with its group tag.
	ErrRecordKindMismatch = errors.New("calendar: record does not match group kind")

	errNonCanonical = errors.New("not in canonical MM/DD/YYYY h:mmAM form")
)

// ParseError describes a timestamp that could not be parsed.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("calendar: invalid timestamp %q: %v", e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidTimestamp) hold for parse failures.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidTimestamp }

// RecordError locates a record that failed classification.
type RecordError struct {
	Employee string
	Kind     RecordKind
	Index    int
	Err      error
}

func (e *RecordError) Error() string {
	if e.Employee == "" {
		return fmt.Sprintf("%s record %d: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("employee %q: %s record %d: %v", e.Employee, e.Kind, e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
