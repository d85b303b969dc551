package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/persistence"
)

// RecordStore captures the persistence operations needed to manage records.
type RecordStore interface {
	persistence.EmployeeRepository
	persistence.LeadRepository
	persistence.EventRepository
	persistence.CheckinRepository
}

// RecordService validates and stores employees, leads, events and check-ins.
type RecordService struct {
	store  RecordStore
	now    func() time.Time
	logger *slog.Logger
}

// NewRecordService wires dependencies for the record service.
func NewRecordService(store RecordStore, now func() time.Time, logger *slog.Logger) *RecordService {
	if now == nil {
		now = time.Now
	}
	return &RecordService{store: store, now: now, logger: defaultLogger(logger)}
}

// CreateEmployee adds a name to the roster.
func (s *RecordService) CreateEmployee(ctx context.Context, name string) (persistence.Employee, error) {
	if s == nil {
		return persistence.Employee{}, fmt.Errorf("RecordService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "RecordService", "CreateEmployee")

	name = strings.TrimSpace(name)
	vErr := &ValidationError{}
	if name == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		logger.Warn("employee validation failed", "error_kind", ErrorKind(vErr))
		return persistence.Employee{}, vErr
	}

	employee, err := s.store.CreateEmployee(ctx, name)
	if err != nil {
		err = translateRepositoryError(err)
		logger.Error("failed to create employee", "error", err, "error_kind", ErrorKind(err))
		return persistence.Employee{}, err
	}

	logger.Info("employee created", "employee_id", employee.ID)
	return employee, nil
}

// ListEmployees returns the roster in column order.
func (s *RecordService) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("RecordService is nil")
	}
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, translateRepositoryError(err)
	}
	return employees, nil
}

// CreateLead validates and stores a lead. An empty create time defaults to now.
func (s *RecordService) CreateLead(ctx context.Context, input LeadInput) (persistence.Lead, error) {
	if s == nil {
		return persistence.Lead{}, fmt.Errorf("RecordService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "RecordService", "CreateLead")

	lead := persistence.Lead{
		Employee:  strings.TrimSpace(input.Employee),
		Firstname: strings.TrimSpace(input.Firstname),
		Lastname:  strings.TrimSpace(input.Lastname),
		Create:    s.defaultTimestamp(input.Create),
	}

	vErr := &ValidationError{}
	if lead.Employee == "" {
		vErr.add("employee", "employee is required")
	}
	if lead.Firstname == "" && lead.Lastname == "" {
		vErr.add("firstname", "first or last name is required")
	}
	checkTimestamp(vErr, "create", lead.Create)
	if vErr.HasErrors() {
		logger.Warn("lead validation failed", "error_kind", ErrorKind(vErr))
		return persistence.Lead{}, vErr
	}

	stored, err := s.store.CreateLead(ctx, lead)
	if err != nil {
		err = translateRepositoryError(err)
		logger.Error("failed to create lead", "error", err, "error_kind", ErrorKind(err))
		return persistence.Lead{}, err
	}

	logger.Info("lead created", "lead_id", stored.ID, "employee", stored.Employee)
	return stored, nil
}

// CreateEvent validates and stores an event shared by its participants.
func (s *RecordService) CreateEvent(ctx context.Context, input EventInput) (persistence.Event, error) {
	if s == nil {
		return persistence.Event{}, fmt.Errorf("RecordService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "RecordService", "CreateEvent")

	event := persistence.Event{
		Title:        strings.TrimSpace(input.Title),
		Start:        strings.TrimSpace(input.Start),
		End:          strings.TrimSpace(input.End),
		Create:       s.defaultTimestamp(input.Create),
		Participants: normalizeNames(input.Employees),
	}

	vErr := &ValidationError{}
	if event.Title == "" {
		vErr.add("title", "title is required")
	}
	start, startOK := checkTimestamp(vErr, "start", event.Start)
	end, endOK := checkTimestamp(vErr, "end", event.End)
	if startOK && endOK && end.Before(start) {
		vErr.add("end", "end must not be before start")
	}
	checkTimestamp(vErr, "create", event.Create)
	if len(event.Participants) == 0 {
		vErr.add("employees", "at least one employee is required")
	}
	if vErr.HasErrors() {
		logger.Warn("event validation failed", "error_kind", ErrorKind(vErr))
		return persistence.Event{}, vErr
	}

	stored, err := s.store.CreateEvent(ctx, event)
	if err != nil {
		err = translateRepositoryError(err)
		logger.Error("failed to create event", "error", err, "error_kind", ErrorKind(err))
		return persistence.Event{}, err
	}

	logger.Info("event created", "event_id", stored.ID, "participants", len(stored.Participants))
	return stored, nil
}

// CreateCheckin validates and stores a patient check-in. The check-in time
// defaults to now and the create time defaults to the check-in time.
func (s *RecordService) CreateCheckin(ctx context.Context, input CheckinInput) (persistence.Checkin, error) {
	if s == nil {
		return persistence.Checkin{}, fmt.Errorf("RecordService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "RecordService", "CreateCheckin")

	checkin := persistence.Checkin{
		Employee: strings.TrimSpace(input.Employee),
		Patient:  strings.TrimSpace(input.Patient),
		Notes:    strings.TrimSpace(input.Notes),
		Checkin:  s.defaultTimestamp(input.Checkin),
		Create:   strings.TrimSpace(input.Create),
	}
	if checkin.Create == "" {
		checkin.Create = checkin.Checkin
	}

	vErr := &ValidationError{}
	if checkin.Employee == "" {
		vErr.add("employee", "employee is required")
	}
	if checkin.Patient == "" {
		vErr.add("patient", "patient is required")
	}
	checkTimestamp(vErr, "checkin", checkin.Checkin)
	checkTimestamp(vErr, "create", checkin.Create)
	if vErr.HasErrors() {
		logger.Warn("checkin validation failed", "error_kind", ErrorKind(vErr))
		return persistence.Checkin{}, vErr
	}

	stored, err := s.store.CreateCheckin(ctx, checkin)
	if err != nil {
		err = translateRepositoryError(err)
		logger.Error("failed to create checkin", "error", err, "error_kind", ErrorKind(err))
		return persistence.Checkin{}, err
	}

	logger.Info("checkin created", "checkin_id", stored.ID, "employee", stored.Employee)
	return stored, nil
}

// DeleteLead removes a lead.
func (s *RecordService) DeleteLead(ctx context.Context, id int64) error {
	return s.delete(ctx, "DeleteLead", id, s.store.DeleteLead)
}

// DeleteEvent removes an event from every participant.
func (s *RecordService) DeleteEvent(ctx context.Context, id int64) error {
	return s.delete(ctx, "DeleteEvent", id, s.store.DeleteEvent)
}

// DeleteCheckin removes a patient check-in.
func (s *RecordService) DeleteCheckin(ctx context.Context, id int64) error {
	return s.delete(ctx, "DeleteCheckin", id, s.store.DeleteCheckin)
}

func (s *RecordService) delete(ctx context.Context, operation string, id int64, remove func(context.Context, int64) error) error {
	logger := serviceLogger(ctx, s.logger, "RecordService", operation, "record_id", id)
	if err := remove(ctx, id); err != nil {
		err = translateRepositoryError(err)
		level := slog.LevelError
		if ErrorKind(err) == "not_found" {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "failed to delete record", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.Info("record deleted")
	return nil
}

func (s *RecordService) defaultTimestamp(value string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return calendar.FormatTimestamp(calendar.Naive(s.now()))
}

func checkTimestamp(vErr *ValidationError, field, value string) (time.Time, bool) {
	if value == "" {
		vErr.add(field, field+" is required")
		return time.Time{}, false
	}
	parsed, err := calendar.ParseTimestamp(value)
	if err != nil {
		vErr.add(field, fmt.Sprintf("%s must look like %q", field, calendar.TimestampLayout))
		return time.Time{}, false
	}
	return parsed, true
}

func normalizeNames(names []string) []string {
	normalized := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	return normalized
}
