package application

import (
	"time"

	"github.com/example/staff-calendar/internal/calendar"
)

// LeadInput captures caller provided lead fields.
type LeadInput struct {
	Employee  string
	Firstname string
	Lastname  string
	Create    string
}

// EventInput captures caller provided event fields. Employees lists the
// participants in display order.
type EventInput struct {
	Title     string
	Start     string
	End       string
	Create    string
	Employees []string
}

// CheckinInput captures caller provided patient check-in fields.
type CheckinInput struct {
	Employee string
	Patient  string
	Notes    string
	Checkin  string
	Create   string
}

// WeekView is everything a client needs to draw one week. Overlaps flags
// double-booked items by index into Items.
type WeekView struct {
	Grid     calendar.Grid
	Items    []calendar.PositionedItem
	Overlaps []calendar.Overlap
}

// WeekEvents lists the distinct events starting within one week.
type WeekEvents struct {
	WeekStart time.Time
	Events    []calendar.EventRecord
}

// ImportSummary reports what Import stored.
type ImportSummary struct {
	Employees int
	Leads     int
	Events    int
	Checkins  int
	Skipped   int
}
