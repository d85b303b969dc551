package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 13, 14, 7, 30, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRecordService(store *memoryStore) *RecordService {
	return NewRecordService(store, func() time.Time { return fixedNow }, discardLogger())
}

func requireFieldError(t *testing.T, err error, fields ...string) {
	t.Helper()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	for _, field := range fields {
		assert.Contains(t, vErr.FieldErrors, field)
	}
}

func TestRecordService_CreateEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	service := newRecordService(newMemoryStore())

	employee, err := service.CreateEmployee(ctx, "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", employee.Name)

	_, err = service.CreateEmployee(ctx, "Alice")
	require.ErrorIs(t, err, ErrAlreadyExists)

	_, err = service.CreateEmployee(ctx, " ")
	requireFieldError(t, err, "name")

	employees, err := service.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
}

func TestRecordService_CreateLead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults create to now", func(t *testing.T) {
		store := newMemoryStore()
		lead, err := newRecordService(store).CreateLead(ctx, LeadInput{Employee: "Alice", Firstname: "Ann"})
		require.NoError(t, err)
		assert.Equal(t, "03/13/2024 2:07PM", lead.Create)
		assert.NotZero(t, lead.EmployeeID)
		require.Len(t, store.employees, 1, "employee created on first reference")
	})

	t.Run("keeps a supplied create time", func(t *testing.T) {
		lead, err := newRecordService(newMemoryStore()).CreateLead(ctx, LeadInput{Employee: "Alice", Lastname: "Bee", Create: "03/10/2024 9:05AM"})
		require.NoError(t, err)
		assert.Equal(t, "03/10/2024 9:05AM", lead.Create)
	})

	t.Run("validates fields", func(t *testing.T) {
		store := newMemoryStore()
		_, err := newRecordService(store).CreateLead(ctx, LeadInput{Create: "03/10/2024 09:05AM"})
		requireFieldError(t, err, "employee", "firstname", "create")
		assert.Empty(t, store.leads)
	})

	t.Run("surfaces storage failures", func(t *testing.T) {
		store := newMemoryStore()
		store.err = errStoreDown
		_, err := newRecordService(store).CreateLead(ctx, LeadInput{Employee: "Alice", Firstname: "Ann"})
		require.ErrorIs(t, err, errStoreDown)
		assert.Equal(t, "unexpected", ErrorKind(err))
	})
}

func TestRecordService_CreateEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("normalizes participants", func(t *testing.T) {
		event, err := newRecordService(newMemoryStore()).CreateEvent(ctx, EventInput{
			Title:     " Sync ",
			Start:     "03/11/2024 9:00AM",
			End:       "03/11/2024 10:00AM",
			Employees: []string{"Alice", " Bob", "Alice", ""},
		})
		require.NoError(t, err)
		assert.Equal(t, "Sync", event.Title)
		assert.Equal(t, []string{"Alice", "Bob"}, event.Participants)
		assert.Equal(t, "03/13/2024 2:07PM", event.Create)
	})

	t.Run("allows zero length", func(t *testing.T) {
		_, err := newRecordService(newMemoryStore()).CreateEvent(ctx, EventInput{
			Title:     "Ping",
			Start:     "03/11/2024 9:00AM",
			End:       "03/11/2024 9:00AM",
			Employees: []string{"Alice"},
		})
		require.NoError(t, err)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := newRecordService(newMemoryStore()).CreateEvent(ctx, EventInput{
			Title:     "Backwards",
			Start:     "03/11/2024 10:00AM",
			End:       "03/11/2024 9:00AM",
			Employees: []string{"Alice"},
		})
		requireFieldError(t, err, "end")
	})

	t.Run("requires title, times and participants", func(t *testing.T) {
		_, err := newRecordService(newMemoryStore()).CreateEvent(ctx, EventInput{Start: "tomorrow"})
		requireFieldError(t, err, "title", "start", "end", "employees")
	})
}

func TestRecordService_CreateCheckin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create defaults to checkin", func(t *testing.T) {
		checkin, err := newRecordService(newMemoryStore()).CreateCheckin(ctx, CheckinInput{Employee: "Carol", Patient: "Pat", Checkin: "03/12/2024 2:30PM"})
		require.NoError(t, err)
		assert.Equal(t, "03/12/2024 2:30PM", checkin.Create)
	})

	t.Run("checkin defaults to now", func(t *testing.T) {
		checkin, err := newRecordService(newMemoryStore()).CreateCheckin(ctx, CheckinInput{Employee: "Carol", Patient: "Pat"})
		require.NoError(t, err)
		assert.Equal(t, "03/13/2024 2:07PM", checkin.Checkin)
		assert.Equal(t, checkin.Checkin, checkin.Create)
	})

	t.Run("requires patient", func(t *testing.T) {
		_, err := newRecordService(newMemoryStore()).CreateCheckin(ctx, CheckinInput{Employee: "Carol"})
		requireFieldError(t, err, "patient")
	})
}

func TestRecordService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemoryStore()
	service := newRecordService(store)

	lead, err := service.CreateLead(ctx, LeadInput{Employee: "Alice", Firstname: "Ann"})
	require.NoError(t, err)
	event, err := service.CreateEvent(ctx, EventInput{Title: "Sync", Start: "03/11/2024 9:00AM", End: "03/11/2024 10:00AM", Employees: []string{"Alice"}})
	require.NoError(t, err)
	checkin, err := service.CreateCheckin(ctx, CheckinInput{Employee: "Alice", Patient: "Pat"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteLead(ctx, lead.ID))
	require.NoError(t, service.DeleteEvent(ctx, event.ID))
	require.NoError(t, service.DeleteCheckin(ctx, checkin.ID))

	require.ErrorIs(t, service.DeleteLead(ctx, lead.ID), ErrNotFound)
	require.ErrorIs(t, service.DeleteEvent(ctx, event.ID), ErrNotFound)
	require.ErrorIs(t, service.DeleteCheckin(ctx, checkin.ID), ErrNotFound)

	assert.Empty(t, store.leads)
}
