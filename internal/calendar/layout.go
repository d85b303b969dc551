package calendar

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// InvalidRecordPolicy selects what Layout does with a record it cannot classify.
type InvalidRecordPolicy string

const (
	// InvalidRecordSkip logs the record and continues with the rest.
	InvalidRecordSkip InvalidRecordPolicy = "skip"
	// InvalidRecordAbort fails the whole layout with a *RecordError.
	InvalidRecordAbort InvalidRecordPolicy = "abort"
)

// ParseInvalidRecordPolicy accepts "skip" or "abort"; empty means skip.
func ParseInvalidRecordPolicy(value string) (InvalidRecordPolicy, error) {
	switch InvalidRecordPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", InvalidRecordSkip:
		return InvalidRecordSkip, nil
	case InvalidRecordAbort:
		return InvalidRecordAbort, nil
	}
	return "", fmt.Errorf("unknown invalid record policy %q", value)
}

// Options controls grid geometry. Heights are in pixels.
type Options struct {
	HourHeight      float64
	PointHeight     float64
	MinPillHeight   float64
	OnInvalidRecord InvalidRecordPolicy
}

// DefaultOptions returns a 40px hour row, 12px points and half-hour minimum pills.
func DefaultOptions() Options {
	return Options{
		HourHeight:      40,
		PointHeight:     12,
		MinPillHeight:   20,
		OnInvalidRecord: InvalidRecordSkip,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.HourHeight <= 0 {
		o.HourHeight = defaults.HourHeight
	}
	if o.PointHeight <= 0 {
		o.PointHeight = defaults.PointHeight
	}
	if o.MinPillHeight <= 0 {
		o.MinPillHeight = o.HourHeight / 2
	}
	if o.OnInvalidRecord == "" {
		o.OnInvalidRecord = defaults.OnInvalidRecord
	}
	return o
}

// PositionedItem is one record placed in one employee column of one day.
type PositionedItem struct {
	Day             int        `json:"day"`
	Column          int        `json:"column"`
	Employee        string     `json:"employee"`
	StartMinute     int        `json:"start_minute"`
	DurationMinutes int        `json:"duration_minutes"`
	Top             float64    `json:"top"`
	Height          float64    `json:"height"`
	Shape           Shape      `json:"shape"`
	RecordKind      RecordKind `json:"record_kind"`
	Record          Record     `json:"record"`
}

// Engine lays out snapshots. It holds configuration only and is safe for
// concurrent use.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// NewEngine builds an Engine; zero-valued options fall back to DefaultOptions.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{opts: opts.withDefaults(), logger: logger}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// PxPerMinute is the vertical scale of the grid.
func (e *Engine) PxPerMinute() float64 { return e.opts.HourHeight / 60 }

// Layout positions every record of employees that starts in the week
// containing weekStart.
//
// Columns follow the input employee order (1-based). Point records land in
// their owner's column. Events fan out to every listed participant found in
// employees; an event reachable from several groups is placed once per
// participant column. Output order follows employee, group, record and
// participant order; nothing is sorted by time.
func (e *Engine) Layout(employees []EmployeeData, weekStart time.Time) ([]PositionedItem, error) {
	weekStart = WeekStartOf(Naive(weekStart))

	columns := make(map[string]int, len(employees))
	for i, emp := range employees {
		if _, ok := columns[emp.Employee]; !ok {
			columns[emp.Employee] = i + 1
		}
	}

	items := make([]PositionedItem, 0)
	placed := make(map[placement]struct{})

	for i, emp := range employees {
		column := i + 1
		for _, group := range emp.Records {
			for idx, rec := range group.Records {
				key, err := ClassifyRecord(group.Type, rec)
				if err != nil {
					recErr := &RecordError{Employee: emp.Employee, Kind: group.Type, Index: idx, Err: err}
					if e.opts.OnInvalidRecord == InvalidRecordAbort {
						return nil, recErr
					}
					e.logger.Warn("skipping invalid record",
						"employee", emp.Employee,
						"kind", string(group.Type),
						"index", idx,
						"error", err,
					)
					continue
				}

				if !IsInWeek(key.Start, weekStart) {
					continue
				}

				switch key.Shape {
				case ShapePoint:
					items = append(items, e.point(emp.Employee, column, group.Type, rec, key, weekStart))
				case ShapeInterval:
					items = e.fanOut(items, placed, columns, employees, rec, key, weekStart)
				}
			}
		}
	}

	return items, nil
}

type placement struct {
	column int
	event  string
}

func (e *Engine) point(employee string, column int, kind RecordKind, rec Record, key TemporalKey, weekStart time.Time) PositionedItem {
	minute := MinutesSinceMidnight(key.Start)
	return PositionedItem{
		Day:         DayOffset(key.Start, weekStart),
		Column:      column,
		Employee:    employee,
		StartMinute: minute,
		Top:         float64(minute) * e.PxPerMinute(),
		Height:      e.opts.PointHeight,
		Shape:       ShapePoint,
		RecordKind:  kind,
		Record:      rec,
	}
}

func (e *Engine) fanOut(items []PositionedItem, placed map[placement]struct{}, columns map[string]int, employees []EmployeeData, rec Record, key TemporalKey, weekStart time.Time) []PositionedItem {
	event, _ := rec.(EventRecord)
	minute := MinutesSinceMidnight(key.Start)
	duration := int(key.End.Sub(key.Start) / time.Minute)
	height := math.Max(float64(duration)*e.PxPerMinute(), e.opts.MinPillHeight)
	day := DayOffset(key.Start, weekStart)
	identity := eventIdentity(event)

	for _, name := range event.Employees {
		column, ok := columns[name]
		if !ok {
			e.logger.Debug("dropping unresolved participant", "participant", name, "title", event.Title)
			continue
		}
		at := placement{column: column, event: identity}
		if _, dup := placed[at]; dup {
			continue
		}
		placed[at] = struct{}{}

		items = append(items, PositionedItem{
			Day:             day,
			Column:          column,
			Employee:        employees[column-1].Employee,
			StartMinute:     minute,
			DurationMinutes: duration,
			Top:             float64(minute) * e.PxPerMinute(),
			Height:          height,
			Shape:           ShapeInterval,
			RecordKind:      KindEvent,
			Record:          rec,
		})
	}
	return items
}

// eventIdentity prefers the stored id and falls back to the record contents.
func eventIdentity(event EventRecord) string {
	if event.ID != 0 {
		return "id:" + strconv.FormatInt(event.ID, 10)
	}
	return strings.Join([]string{
		event.Title,
		event.Start,
		event.End,
		event.Create,
		strings.Join(event.Employees, "\x1f"),
	}, "\x1e")
}
