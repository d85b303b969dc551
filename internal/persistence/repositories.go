package persistence

import "context"

// EmployeeRepository stores the employee roster.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, name string) (Employee, error)
	EnsureEmployee(ctx context.Context, name string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	CountEmployees(ctx context.Context) (int, error)
}

// LeadRepository stores leads. CreateLead resolves Employee by name,
// creating the employee on first reference.
type LeadRepository interface {
	CreateLead(ctx context.Context, lead Lead) (Lead, error)
	ListLeads(ctx context.Context) ([]Lead, error)
	DeleteLead(ctx context.Context, id int64) error
}

// EventRepository stores events and their participants. Unknown
// participant names are created as employees.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

// CheckinRepository stores patient check-ins.
type CheckinRepository interface {
	CreateCheckin(ctx context.Context, checkin Checkin) (Checkin, error)
	ListCheckins(ctx context.Context) ([]Checkin, error)
	DeleteCheckin(ctx context.Context, id int64) error
}

// FormRepository serves the dynamic form metadata.
type FormRepository interface {
	GetForm(ctx context.Context, record, formType string) (Form, error)
}
