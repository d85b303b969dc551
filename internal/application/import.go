package application

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/example/staff-calendar/internal/calendar"
)

// Import stores a snapshot such as the one served by Snapshot. Employees are
// created in snapshot order so columns keep their positions. An event listed
// under several participants is stored once. Records that fail validation are
// counted as skipped; storage failures abort the import.
func (s *RecordService) Import(ctx context.Context, snapshot []calendar.EmployeeData) (ImportSummary, error) {
	logger := serviceLogger(ctx, s.logger, "RecordService", "Import")

	var summary ImportSummary
	for _, data := range snapshot {
		if _, err := s.store.EnsureEmployee(ctx, data.Employee); err != nil {
			return summary, translateRepositoryError(err)
		}
		summary.Employees++
	}

	storedEvents := make(map[string]struct{})
	for _, data := range snapshot {
		for _, group := range data.Records {
			for _, record := range group.Records {
				err := s.importRecord(ctx, data.Employee, group.Type, record, storedEvents, &summary)
				if err == nil {
					continue
				}
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					return summary, err
				}
				summary.Skipped++
				logger.Warn("skipping invalid record", "employee", data.Employee, "kind", group.Type, "fields", vErr.FieldErrors)
			}
		}
	}

	logger.Info("snapshot imported",
		"employees", summary.Employees,
		"leads", summary.Leads,
		"events", summary.Events,
		"checkins", summary.Checkins,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

func (s *RecordService) importRecord(ctx context.Context, employee string, kind calendar.RecordKind, record calendar.Record, storedEvents map[string]struct{}, summary *ImportSummary) error {
	if record.Kind() != kind {
		vErr := &ValidationError{}
		vErr.add("type", "record does not match its group type")
		return vErr
	}

	switch rec := record.(type) {
	case calendar.LeadRecord:
		if _, err := s.CreateLead(ctx, LeadInput{Employee: employee, Firstname: rec.Firstname, Lastname: rec.Lastname, Create: rec.Create}); err != nil {
			return err
		}
		summary.Leads++
	case calendar.EventRecord:
		key := importedEventKey(rec)
		if _, seen := storedEvents[key]; seen {
			return nil
		}
		if _, err := s.CreateEvent(ctx, EventInput{Title: rec.Title, Start: rec.Start, End: rec.End, Create: rec.Create, Employees: rec.Employees}); err != nil {
			return err
		}
		storedEvents[key] = struct{}{}
		summary.Events++
	case calendar.PatientCheckinRecord:
		if _, err := s.CreateCheckin(ctx, CheckinInput{Employee: employee, Patient: rec.Patient, Notes: rec.Notes, Checkin: rec.Checkin, Create: rec.Create}); err != nil {
			return err
		}
		summary.Checkins++
	}
	return nil
}

func importedEventKey(event calendar.EventRecord) string {
	if event.ID != 0 {
		return "id:" + strconv.FormatInt(event.ID, 10)
	}
	return strings.Join([]string{event.Title, event.Start, event.End, event.Create, strings.Join(event.Employees, "\x1f")}, "\x1e")
}
