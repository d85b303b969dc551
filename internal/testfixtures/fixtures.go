package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/staff-calendar/internal/application"
	"github.com/example/staff-calendar/internal/calendar"
)

var (
	leadCounter    uint64
	eventCounter   uint64
	checkinCounter uint64
)

// referenceTime is a Wednesday afternoon; its week starts on 03/10/2024.
var referenceTime = time.Date(2024, time.March, 13, 14, 7, 30, 0, time.UTC)

// ReferenceTime returns the canonical baseline instant used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceWeek returns the Sunday starting the week of ReferenceTime.
func ReferenceWeek() time.Time {
	return calendar.WeekStartOf(referenceTime)
}

// Stamp renders a time in the record timestamp format.
func Stamp(t time.Time) string {
	return calendar.FormatTimestamp(t)
}

// weekAt returns the reference week's day at hour:minute.
func weekAt(day, hour, minute int) time.Time {
	return ReferenceWeek().AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ----------------------------- Lead fixtures -----------------------------

// LeadFixture is a deterministic lead placed inside the reference week.
type LeadFixture struct {
	Employee  string
	Firstname string
	Lastname  string
	Create    string
}

// LeadOption configures the generated lead fixture.
type LeadOption func(*LeadFixture)

// NewLeadFixture returns a lead created on Monday of the reference week.
func NewLeadFixture(opts ...LeadOption) LeadFixture {
	idx := atomic.AddUint64(&leadCounter, 1)
	fixture := LeadFixture{
		Employee:  "Alice",
		Firstname: fmt.Sprintf("Lead%03d", idx),
		Lastname:  "Prospect",
		Create:    Stamp(weekAt(1, 9, int(idx%60))),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithLeadEmployee sets the owning employee.
func WithLeadEmployee(name string) LeadOption {
	return func(f *LeadFixture) {
		f.Employee = name
	}
}

// WithLeadName overrides first and last name.
func WithLeadName(first, last string) LeadOption {
	return func(f *LeadFixture) {
		f.Firstname = first
		f.Lastname = last
	}
}

// WithLeadCreate sets the creation timestamp.
func WithLeadCreate(ts string) LeadOption {
	return func(f *LeadFixture) {
		f.Create = ts
	}
}

// Record converts the fixture into a calendar record.
func (f LeadFixture) Record() calendar.LeadRecord {
	return calendar.LeadRecord{Firstname: f.Firstname, Lastname: f.Lastname, Create: f.Create}
}

// Input converts the fixture into a create request.
func (f LeadFixture) Input() application.LeadInput {
	return application.LeadInput{Employee: f.Employee, Firstname: f.Firstname, Lastname: f.Lastname, Create: f.Create}
}

// ----------------------------- Event fixtures ----------------------------

// EventFixture is a deterministic one hour event inside the reference week.
type EventFixture struct {
	Title     string
	Start     string
	End       string
	Create    string
	Employees []string
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a Tuesday event attended by Alice.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	start := weekAt(2, 10, 0)
	fixture := EventFixture{
		Title:     fmt.Sprintf("Event %03d", idx),
		Start:     Stamp(start),
		End:       Stamp(start.Add(time.Hour)),
		Create:    Stamp(weekAt(0, 8, 0)),
		Employees: []string{"Alice"},
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventTitle overrides the title.
func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) {
		f.Title = title
	}
}

// WithEventSpan sets start and end.
func WithEventSpan(start, end string) EventOption {
	return func(f *EventFixture) {
		f.Start = start
		f.End = end
	}
}

// WithEventEmployees sets the participants in display order.
func WithEventEmployees(names ...string) EventOption {
	return func(f *EventFixture) {
		f.Employees = append([]string(nil), names...)
	}
}

// Record converts the fixture into a calendar record.
func (f EventFixture) Record() calendar.EventRecord {
	return calendar.EventRecord{
		Title:     f.Title,
		Start:     f.Start,
		End:       f.End,
		Create:    f.Create,
		Employees: append([]string(nil), f.Employees...),
	}
}

// Input converts the fixture into a create request.
func (f EventFixture) Input() application.EventInput {
	return application.EventInput{
		Title:     f.Title,
		Start:     f.Start,
		End:       f.End,
		Create:    f.Create,
		Employees: append([]string(nil), f.Employees...),
	}
}

// ---------------------------- Check-in fixtures --------------------------

// CheckinFixture is a deterministic patient check-in inside the reference week.
type CheckinFixture struct {
	Employee string
	Patient  string
	Notes    string
	Checkin  string
	Create   string
}

// CheckinOption configures the generated check-in fixture.
type CheckinOption func(*CheckinFixture)

// NewCheckinFixture returns a Wednesday morning check-in handled by Alice.
func NewCheckinFixture(opts ...CheckinOption) CheckinFixture {
	idx := atomic.AddUint64(&checkinCounter, 1)
	at := Stamp(weekAt(3, 11, int(idx%60)))
	fixture := CheckinFixture{
		Employee: "Alice",
		Patient:  fmt.Sprintf("Patient %03d", idx),
		Notes:    "routine",
		Checkin:  at,
		Create:   at,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCheckinEmployee sets the handling employee.
func WithCheckinEmployee(name string) CheckinOption {
	return func(f *CheckinFixture) {
		f.Employee = name
	}
}

// WithCheckinPatient overrides the patient.
func WithCheckinPatient(patient string) CheckinOption {
	return func(f *CheckinFixture) {
		f.Patient = patient
	}
}

// WithCheckinTime sets the check-in timestamp.
func WithCheckinTime(ts string) CheckinOption {
	return func(f *CheckinFixture) {
		f.Checkin = ts
	}
}

// Record converts the fixture into a calendar record.
func (f CheckinFixture) Record() calendar.PatientCheckinRecord {
	return calendar.PatientCheckinRecord{Patient: f.Patient, Notes: f.Notes, Checkin: f.Checkin, Create: f.Create}
}

// Input converts the fixture into a create request.
func (f CheckinFixture) Input() application.CheckinInput {
	return application.CheckinInput{
		Employee: f.Employee,
		Patient:  f.Patient,
		Notes:    f.Notes,
		Checkin:  f.Checkin,
		Create:   f.Create,
	}
}

// ------------------------------ Snapshots --------------------------------

// SnapshotBuilder assembles an employee snapshot the way the calendar
// service does: groups in Lead, Event, Patient Checkin order and an event
// listed under every participant.
type SnapshotBuilder struct {
	order  []string
	groups map[string]map[calendar.RecordKind][]calendar.Record
}

// NewSnapshot starts a snapshot with the given roster, in column order.
func NewSnapshot(employees ...string) *SnapshotBuilder {
	b := &SnapshotBuilder{groups: make(map[string]map[calendar.RecordKind][]calendar.Record)}
	for _, name := range employees {
		b.employee(name)
	}
	return b
}

func (b *SnapshotBuilder) employee(name string) map[calendar.RecordKind][]calendar.Record {
	groups, ok := b.groups[name]
	if !ok {
		groups = make(map[calendar.RecordKind][]calendar.Record)
		b.groups[name] = groups
		b.order = append(b.order, name)
	}
	return groups
}

func (b *SnapshotBuilder) add(name string, record calendar.Record) {
	groups := b.employee(name)
	groups[record.Kind()] = append(groups[record.Kind()], record)
}

// Lead adds a lead under its employee.
func (b *SnapshotBuilder) Lead(f LeadFixture) *SnapshotBuilder {
	b.add(f.Employee, f.Record())
	return b
}

// Event adds an event under each of its participants.
func (b *SnapshotBuilder) Event(f EventFixture) *SnapshotBuilder {
	for _, name := range f.Employees {
		b.add(name, f.Record())
	}
	return b
}

// Checkin adds a check-in under its employee.
func (b *SnapshotBuilder) Checkin(f CheckinFixture) *SnapshotBuilder {
	b.add(f.Employee, f.Record())
	return b
}

// Build returns the snapshot. Employees without records have an empty,
// non-nil group list.
func (b *SnapshotBuilder) Build() []calendar.EmployeeData {
	snapshot := make([]calendar.EmployeeData, 0, len(b.order))
	for _, name := range b.order {
		data := calendar.EmployeeData{Employee: name, Records: []calendar.RecordGroup{}}
		for _, kind := range calendar.Kinds() {
			if records := b.groups[name][kind]; len(records) > 0 {
				data.Records = append(data.Records, calendar.RecordGroup{Type: kind, Records: records})
			}
		}
		snapshot = append(snapshot, data)
	}
	return snapshot
}
