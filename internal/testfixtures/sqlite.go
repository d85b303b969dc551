package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/staff-calendar/internal/persistence"
	"github.com/example/staff-calendar/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite storage
// instance for integration-style tests. Form metadata is seeded.
type SQLiteHarness struct {
	Storage   *sqlite.Storage
	Employees persistence.EmployeeRepository
	Leads     persistence.LeadRepository
	Events    persistence.EventRepository
	Checkins  persistence.CheckinRepository
	Forms     persistence.FormRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated and seeded automatically. Callers may optionally invoke Close, but
// the helper also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "calendar.db")

	storage, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	ctx := context.Background()
	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}
	if err := storage.SeedForms(ctx); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to seed forms: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:   storage,
		Employees: storage,
		Leads:     storage,
		Events:    storage,
		Checkins:  storage,
		Forms:     storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
