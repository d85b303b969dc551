package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/staff-calendar/internal/application"
	"github.com/example/staff-calendar/internal/calendar"
)

// ServiceFactory assists tests with constructing application services using
// a deterministic clock.
type ServiceFactory struct {
	Clock  *Clock
	Logger *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock: NewClock(time.Time{}),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithLogger overrides the logger handed to every service.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// NewRecordService builds a record service on the supplied store.
func (f *ServiceFactory) NewRecordService(store application.RecordStore) *application.RecordService {
	return application.NewRecordService(store, f.Clock.NowFunc(), f.Logger)
}

// NewCalendarService builds a calendar service laying out with opts.
func (f *ServiceFactory) NewCalendarService(store application.CalendarReader, opts calendar.Options) *application.CalendarService {
	return application.NewCalendarService(store, calendar.NewEngine(opts, f.Logger), f.Clock.NowFunc(), f.Logger)
}

// Services bundles every application service over one harness.
type Services struct {
	Records  *application.RecordService
	Calendar *application.CalendarService
	Forms    *application.FormService
}

// NewServices wires all services to the harness storage.
func (f *ServiceFactory) NewServices(h *SQLiteHarness, opts calendar.Options) Services {
	return Services{
		Records:  f.NewRecordService(h.Storage),
		Calendar: f.NewCalendarService(h.Storage, opts),
		Forms:    application.NewFormService(h.Forms, f.Logger),
	}
}
