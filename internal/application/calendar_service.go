package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/persistence"
)

// CalendarReader captures the read operations needed to build snapshots.
type CalendarReader interface {
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
	ListLeads(ctx context.Context) ([]persistence.Lead, error)
	ListEvents(ctx context.Context) ([]persistence.Event, error)
	ListCheckins(ctx context.Context) ([]persistence.Checkin, error)
}

// CalendarService assembles stored records into snapshots and week views.
type CalendarService struct {
	store  CalendarReader
	engine *calendar.Engine
	now    func() time.Time
	logger *slog.Logger
}

// NewCalendarService wires dependencies for the calendar service. A nil
// engine uses the default geometry.
func NewCalendarService(store CalendarReader, engine *calendar.Engine, now func() time.Time, logger *slog.Logger) *CalendarService {
	logger = defaultLogger(logger)
	if engine == nil {
		engine = calendar.NewEngine(calendar.DefaultOptions(), logger)
	}
	if now == nil {
		now = time.Now
	}
	return &CalendarService{store: store, engine: engine, now: now, logger: logger}
}

// CurrentWeek returns the start of the week containing the clock's now.
func (s *CalendarService) CurrentWeek() time.Time {
	return calendar.WeekStartOf(calendar.Naive(s.now()))
}

// Snapshot returns every employee with their Lead, Event and Patient Checkin
// groups. Empty groups are omitted and an event is listed under each of its
// participants.
func (s *CalendarService) Snapshot(ctx context.Context) ([]calendar.EmployeeData, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "CalendarService", "Snapshot")

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, s.readFailed(logger, "employees", err)
	}
	leads, err := s.store.ListLeads(ctx)
	if err != nil {
		return nil, s.readFailed(logger, "leads", err)
	}
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, s.readFailed(logger, "events", err)
	}
	checkins, err := s.store.ListCheckins(ctx)
	if err != nil {
		return nil, s.readFailed(logger, "checkins", err)
	}

	leadsByOwner := make(map[int64][]calendar.Record)
	for _, lead := range leads {
		leadsByOwner[lead.EmployeeID] = append(leadsByOwner[lead.EmployeeID], calendar.LeadRecord{
			ID:        lead.ID,
			Firstname: lead.Firstname,
			Lastname:  lead.Lastname,
			Create:    lead.Create,
		})
	}

	eventsByParticipant := make(map[string][]calendar.Record)
	for _, event := range events {
		record := toEventRecord(event)
		for _, name := range event.Participants {
			eventsByParticipant[name] = append(eventsByParticipant[name], record)
		}
	}

	checkinsByOwner := make(map[int64][]calendar.Record)
	for _, checkin := range checkins {
		checkinsByOwner[checkin.EmployeeID] = append(checkinsByOwner[checkin.EmployeeID], calendar.PatientCheckinRecord{
			ID:      checkin.ID,
			Patient: checkin.Patient,
			Notes:   checkin.Notes,
			Checkin: checkin.Checkin,
			Create:  checkin.Create,
		})
	}

	snapshot := make([]calendar.EmployeeData, 0, len(employees))
	for _, employee := range employees {
		groups := make([]calendar.RecordGroup, 0, 3)
		if records := leadsByOwner[employee.ID]; len(records) > 0 {
			groups = append(groups, calendar.RecordGroup{Type: calendar.KindLead, Records: records})
		}
		if records := eventsByParticipant[employee.Name]; len(records) > 0 {
			groups = append(groups, calendar.RecordGroup{Type: calendar.KindEvent, Records: records})
		}
		if records := checkinsByOwner[employee.ID]; len(records) > 0 {
			groups = append(groups, calendar.RecordGroup{Type: calendar.KindPatientCheckin, Records: records})
		}
		snapshot = append(snapshot, calendar.EmployeeData{Employee: employee.Name, Records: groups})
	}

	logger.Debug("snapshot built", "employees", len(snapshot), "leads", len(leads), "events", len(events), "checkins", len(checkins))
	return snapshot, nil
}

// Week lays out the week containing ref.
func (s *CalendarService) Week(ctx context.Context, ref time.Time) (WeekView, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return WeekView{}, err
	}

	weekStart := calendar.WeekStartOf(calendar.Naive(ref))
	logger := serviceLogger(ctx, s.logger, "CalendarService", "Week", "week_start", calendar.FormatTimestamp(weekStart))

	items, err := s.engine.Layout(snapshot, weekStart)
	if err != nil {
		logger.Error("layout failed", "error", err, "error_kind", ErrorKind(err))
		return WeekView{}, err
	}

	overlaps := calendar.DetectOverlaps(items)
	logger.Debug("week laid out", "items", len(items), "overlaps", len(overlaps))
	return WeekView{Grid: s.engine.Grid(snapshot, weekStart), Items: items, Overlaps: overlaps}, nil
}

// WeekEvents returns each stored event starting in the week containing ref,
// once, in storage order. Events with unreadable times are skipped.
func (s *CalendarService) WeekEvents(ctx context.Context, ref time.Time) (WeekEvents, error) {
	if s == nil {
		return WeekEvents{}, fmt.Errorf("CalendarService is nil")
	}
	weekStart := calendar.WeekStartOf(calendar.Naive(ref))
	logger := serviceLogger(ctx, s.logger, "CalendarService", "WeekEvents", "week_start", calendar.FormatTimestamp(weekStart))

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return WeekEvents{}, s.readFailed(logger, "events", err)
	}

	selected := make([]calendar.EventRecord, 0)
	for _, event := range events {
		record := toEventRecord(event)
		key, err := calendar.ClassifyRecord(calendar.KindEvent, record)
		if err != nil {
			logger.Warn("skipping unreadable event", "event_id", event.ID, "error", err)
			continue
		}
		if calendar.IsInWeek(key.Start, weekStart) {
			selected = append(selected, record)
		}
	}
	return WeekEvents{WeekStart: weekStart, Events: selected}, nil
}

func (s *CalendarService) readFailed(logger *slog.Logger, what string, err error) error {
	err = translateRepositoryError(err)
	logger.Error("failed to list "+what, "error", err, "error_kind", ErrorKind(err))
	return err
}

func toEventRecord(event persistence.Event) calendar.EventRecord {
	return calendar.EventRecord{
		ID:        event.ID,
		Title:     event.Title,
		Start:     event.Start,
		End:       event.End,
		Employees: append([]string{}, event.Participants...),
		Create:    event.Create,
	}
}
