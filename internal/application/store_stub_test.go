package application

import (
	"context"
	"errors"

	"github.com/example/staff-calendar/internal/persistence"
)

// memoryStore is an in-memory RecordStore, CalendarReader and FormRepository.
type memoryStore struct {
	employees []persistence.Employee
	leads     []persistence.Lead
	events    []persistence.Event
	checkins  []persistence.Checkin
	forms     map[string]persistence.Form
	nextID    int64
	err       error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{forms: map[string]persistence.Form{}}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) ensure(name string) int64 {
	for _, e := range m.employees {
		if e.Name == name {
			return e.ID
		}
	}
	e := persistence.Employee{ID: m.id(), Name: name}
	m.employees = append(m.employees, e)
	return e.ID
}

func (m *memoryStore) CreateEmployee(_ context.Context, name string) (persistence.Employee, error) {
	if m.err != nil {
		return persistence.Employee{}, m.err
	}
	for _, e := range m.employees {
		if e.Name == name {
			return persistence.Employee{}, persistence.ErrConflict
		}
	}
	return persistence.Employee{ID: m.ensure(name), Name: name}, nil
}

func (m *memoryStore) EnsureEmployee(_ context.Context, name string) (persistence.Employee, error) {
	if m.err != nil {
		return persistence.Employee{}, m.err
	}
	return persistence.Employee{ID: m.ensure(name), Name: name}, nil
}

func (m *memoryStore) ListEmployees(context.Context) ([]persistence.Employee, error) {
	return append([]persistence.Employee{}, m.employees...), m.err
}

func (m *memoryStore) CountEmployees(context.Context) (int, error) {
	return len(m.employees), m.err
}

func (m *memoryStore) CreateLead(_ context.Context, lead persistence.Lead) (persistence.Lead, error) {
	if m.err != nil {
		return persistence.Lead{}, m.err
	}
	lead.EmployeeID = m.ensure(lead.Employee)
	lead.ID = m.id()
	m.leads = append(m.leads, lead)
	return lead, nil
}

func (m *memoryStore) ListLeads(context.Context) ([]persistence.Lead, error) {
	return append([]persistence.Lead{}, m.leads...), m.err
}

func (m *memoryStore) DeleteLead(_ context.Context, id int64) error {
	for i, lead := range m.leads {
		if lead.ID == id {
			m.leads = append(m.leads[:i], m.leads[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (m *memoryStore) CreateEvent(_ context.Context, event persistence.Event) (persistence.Event, error) {
	if m.err != nil {
		return persistence.Event{}, m.err
	}
	for _, name := range event.Participants {
		m.ensure(name)
	}
	event.ID = m.id()
	m.events = append(m.events, event)
	return event, nil
}

func (m *memoryStore) ListEvents(context.Context) ([]persistence.Event, error) {
	return append([]persistence.Event{}, m.events...), m.err
}

func (m *memoryStore) DeleteEvent(_ context.Context, id int64) error {
	for i, event := range m.events {
		if event.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (m *memoryStore) CreateCheckin(_ context.Context, checkin persistence.Checkin) (persistence.Checkin, error) {
	if m.err != nil {
		return persistence.Checkin{}, m.err
	}
	checkin.EmployeeID = m.ensure(checkin.Employee)
	checkin.ID = m.id()
	m.checkins = append(m.checkins, checkin)
	return checkin, nil
}

func (m *memoryStore) ListCheckins(context.Context) ([]persistence.Checkin, error) {
	return append([]persistence.Checkin{}, m.checkins...), m.err
}

func (m *memoryStore) DeleteCheckin(_ context.Context, id int64) error {
	for i, checkin := range m.checkins {
		if checkin.ID == id {
			m.checkins = append(m.checkins[:i], m.checkins[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (m *memoryStore) GetForm(_ context.Context, record, formType string) (persistence.Form, error) {
	form, ok := m.forms[record+"/"+formType]
	if !ok {
		return persistence.Form{}, persistence.ErrNotFound
	}
	return form, nil
}

var errStoreDown = errors.New("store down")
