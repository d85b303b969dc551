package calendar

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DayHeader labels one day of the displayed week.
type DayHeader struct {
	Index int       `json:"index"`
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// Column labels one employee slot, repeated in every day.
type Column struct {
	Index    int    `json:"index"`
	Employee string `json:"employee"`
	Initials string `json:"initials"`
}

// Grid describes the frame a renderer draws positioned items into.
type Grid struct {
	WeekStart  time.Time   `json:"week_start"`
	Days       []DayHeader `json:"days"`
	Hours      []string    `json:"hours"`
	Columns    []Column    `json:"columns"`
	HourHeight float64     `json:"hour_height"`
	DayHeight  float64     `json:"day_height"`
}

// Grid builds the frame for the week containing weekStart.
func (e *Engine) Grid(employees []EmployeeData, weekStart time.Time) Grid {
	weekStart = WeekStartOf(Naive(weekStart))

	days := make([]DayHeader, 0, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		date := weekStart.AddDate(0, 0, i)
		days = append(days, DayHeader{Index: i, Date: date, Label: date.Format("Mon 01/02")})
	}

	hours := make([]string, 0, 25)
	for h := 0; h <= 24; h++ {
		hours = append(hours, time.Date(2020, time.January, 1, h, 0, 0, 0, time.UTC).Format("3pm"))
	}

	columns := make([]Column, 0, len(employees))
	for i, emp := range employees {
		columns = append(columns, Column{Index: i + 1, Employee: emp.Employee, Initials: Initials(emp.Employee)})
	}

	return Grid{
		WeekStart:  weekStart,
		Days:       days,
		Hours:      hours,
		Columns:    columns,
		HourHeight: e.opts.HourHeight,
		DayHeight:  24 * e.opts.HourHeight,
	}
}

// Initials abbreviates a name to the upper-cased first letter of each word.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// FormatTimeLabel renders the time of day as "9:05am".
func FormatTimeLabel(t time.Time) string {
	return strings.ToLower(t.Format("3:04PM"))
}

// FormatRange renders "9:00am-10:00am".
func FormatRange(start, end time.Time) string {
	return FormatTimeLabel(start) + "-" + FormatTimeLabel(end)
}
