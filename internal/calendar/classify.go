package calendar

import (
	"fmt"
	"time"
)

// Shape distinguishes point records from interval records.
type Shape string

const (
	ShapePoint    Shape = "point"
	ShapeInterval Shape = "interval"
)

// TemporalKey is the instant (or instant pair) a record is placed by.
// For point keys End equals Start.
type TemporalKey struct {
	Shape Shape
	Start time.Time
	End   time.Time
}

// Point builds a point key.
func Point(t time.Time) TemporalKey {
	return TemporalKey{Shape: ShapePoint, Start: t, End: t}
}

// Interval builds an interval key.
func Interval(start, end time.Time) TemporalKey {
	return TemporalKey{Shape: ShapeInterval, Start: start, End: end}
}

// Classified pairs a record with its temporal key.
type Classified struct {
	Record Record
	Key    TemporalKey
}

// ClassifyRecord extracts the temporal key of rec, which must belong to a kind group.
func ClassifyRecord(kind RecordKind, rec Record) (TemporalKey, error) {
	switch kind {
	case KindLead:
		lead, ok := rec.(LeadRecord)
		if !ok {
			return TemporalKey{}, mismatch(kind, rec)
		}
		at, err := ParseTimestamp(lead.Create)
		if err != nil {
			return TemporalKey{}, err
		}
		return Point(at), nil
	case KindPatientCheckin:
		checkin, ok := rec.(PatientCheckinRecord)
		if !ok {
			return TemporalKey{}, mismatch(kind, rec)
		}
		at, err := ParseTimestamp(checkin.Checkin)
		if err != nil {
			return TemporalKey{}, err
		}
		return Point(at), nil
	case KindEvent:
		event, ok := rec.(EventRecord)
		if !ok {
			return TemporalKey{}, mismatch(kind, rec)
		}
		start, err := ParseTimestamp(event.Start)
		if err != nil {
			return TemporalKey{}, err
		}
		end, err := ParseTimestamp(event.End)
		if err != nil {
			return TemporalKey{}, err
		}
		return Interval(start, end), nil
	}
	return TemporalKey{}, fmt.Errorf("%w: %q", ErrUnknownRecordKind, kind)
}

// Classify keys every record of the group, stopping at the first failure.
func Classify(group RecordGroup) ([]Classified, error) {
	out := make([]Classified, 0, len(group.Records))
	for i, rec := range group.Records {
		key, err := ClassifyRecord(group.Type, rec)
		if err != nil {
			return nil, &RecordError{Kind: group.Type, Index: i, Err: err}
		}
		out = append(out, Classified{Record: rec, Key: key})
	}
	return out, nil
}

func mismatch(kind RecordKind, rec Record) error {
	return fmt.Errorf("%w: %T in %s group", ErrRecordKindMismatch, rec, kind)
}
