// Package calendar places employee records on a weekly per-employee grid.
//
// The package is pure: it consumes an immutable snapshot of employees and
// their record groups and produces positioned items. It never talks to
// storage or the network.
//
// All instants handled here live in a naive wall-clock frame. Timestamps are
// parsed into time.UTC values whose hour and minute are exactly the ones
// written in the source text, so day arithmetic is free of DST drift.
package calendar

import (
	"encoding/json"
	"fmt"
)

// RecordKind tags a record group.
type RecordKind string

const (
	KindLead           RecordKind = "Lead"
	KindEvent          RecordKind = "Event"
	KindPatientCheckin RecordKind = "Patient Checkin"
)

// Kinds lists every supported record kind in display order.
func Kinds() []RecordKind {
	return []RecordKind{KindLead, KindEvent, KindPatientCheckin}
}

// Valid reports whether k is one of the supported kinds.
func (k RecordKind) Valid() bool {
	switch k {
	case KindLead, KindEvent, KindPatientCheckin:
		return true
	}
	return false
}

// Record is the closed set of record variants. Only the types declared in
// this package implement it.
type Record interface {
	Kind() RecordKind
	sealed()
}

// LeadRecord is a sales lead keyed by its creation time.
type LeadRecord struct {
	ID        int64  `json:"id,omitempty"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Create    string `json:"create"`
}

// EventRecord spans Start to End and is shared by every listed employee.
type EventRecord struct {
	ID        int64    `json:"id,omitempty"`
	Title     string   `json:"title"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Employees []string `json:"employees"`
	Create    string   `json:"create"`
}

// PatientCheckinRecord is keyed by the check-in time.
type PatientCheckinRecord struct {
	ID      int64  `json:"id,omitempty"`
	Patient string `json:"patient"`
	Notes   string `json:"notes"`
	Checkin string `json:"checkin"`
	Create  string `json:"create,omitempty"`
}

func (LeadRecord) Kind() RecordKind           { return KindLead }
func (EventRecord) Kind() RecordKind          { return KindEvent }
func (PatientCheckinRecord) Kind() RecordKind { return KindPatientCheckin }

func (LeadRecord) sealed()           {}
func (EventRecord) sealed()          {}
func (PatientCheckinRecord) sealed() {}

// RecordGroup holds the records of one kind for one employee.
type RecordGroup struct {
	Type    RecordKind `json:"type"`
	Records []Record   `json:"records"`
}

// EmployeeData is one employee with their record groups.
type EmployeeData struct {
	Employee string        `json:"employee"`
	Records  []RecordGroup `json:"records"`
}

// UnmarshalJSON decodes the records array according to the group type.
func (g *RecordGroup) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    RecordKind        `json:"type"`
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRecordKind, raw.Type)
	}

	records := make([]Record, 0, len(raw.Records))
	for i, msg := range raw.Records {
		rec, err := decodeRecord(raw.Type, msg)
		if err != nil {
			return fmt.Errorf("decode %s record %d: %w", raw.Type, i, err)
		}
		records = append(records, rec)
	}

	g.Type = raw.Type
	g.Records = records
	return nil
}

func decodeRecord(kind RecordKind, msg json.RawMessage) (Record, error) {
	switch kind {
	case KindLead:
		var rec LeadRecord
		err := json.Unmarshal(msg, &rec)
		return rec, err
	case KindEvent:
		var rec EventRecord
		err := json.Unmarshal(msg, &rec)
		return rec, err
	case KindPatientCheckin:
		var rec PatientCheckinRecord
		err := json.Unmarshal(msg, &rec)
		return rec, err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRecordKind, kind)
}
