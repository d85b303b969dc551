package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/testfixtures"
)

type testServer struct {
	handler http.Handler
	clock   *testfixtures.Clock
	logs    *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	harness := testfixtures.NewSQLiteHarness(t)
	factory := testfixtures.NewServiceFactory(testfixtures.WithLogger(logger))
	services := factory.NewServices(harness, calendar.DefaultOptions())

	handler := NewRouter(RouterConfig{
		Calendar:   NewCalendarHandler(services.Calendar, logger),
		Records:    NewRecordHandler(services.Records, logger),
		Employees:  NewEmployeeHandler(services.Records, logger),
		Forms:      NewFormHandler(services.Forms, logger),
		Health:     NewHealthHandler(harness.Storage, logger),
		Middleware: []func(http.Handler) http.Handler{RequestLogger(logger)},
	})
	return &testServer{handler: handler, clock: factory.Clock, logs: logs}
}

func (s *testServer) do(t *testing.T, method, target string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRecordHandlers(t *testing.T) {
	t.Run("create lead and read it back in the snapshot", func(t *testing.T) {
		srv := newTestServer(t)
		lead := testfixtures.NewLeadFixture(testfixtures.WithLeadName("Ada", "Lovelace"))

		rec := srv.do(t, http.MethodPost, "/api/lead", leadRequest{
			Employee:  lead.Employee,
			Firstname: lead.Firstname,
			Lastname:  lead.Lastname,
			Create:    lead.Create,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[leadDTO](t, rec)
		assert.Positive(t, created.ID)
		assert.Equal(t, "Alice", created.Employee)

		rec = srv.do(t, http.MethodGet, "/api/data", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var snapshot []calendar.EmployeeData
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		require.Len(t, snapshot, 1)
		require.Len(t, snapshot[0].Records, 1)
		assert.Equal(t, calendar.KindLead, snapshot[0].Records[0].Type)
		assert.Equal(t, "Ada", snapshot[0].Records[0].Records[0].(calendar.LeadRecord).Firstname)
	})

	t.Run("lead create defaults to the clock", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/api/lead", map[string]string{"employee": "Bob", "lastname": "Smith"})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, srv.clock.Timestamp(), decode[leadDTO](t, rec).Create)
	})

	t.Run("validation errors are localized", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/api/lead", map[string]string{"create": "3/10/2024 9:05AM"})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decode[errorResponse](t, rec)
		assert.Equal(t, "入力内容に誤りがあります。", body.Message)
		assert.Equal(t, "担当者は必須です。", body.Errors["employee"])
		assert.Equal(t, "姓または名のいずれかを指定してください。", body.Errors["firstname"])
		assert.Equal(t, `作成日時は "01/02/2006 3:04PM" の形式で指定してください。`, body.Errors["create"])
	})

	t.Run("event end before start", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/api/event", eventRequest{
			Title:     "Backwards",
			Start:     "03/12/2024 11:00AM",
			End:       "03/12/2024 10:00AM",
			Employees: []string{"Alice"},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "終了日時は開始日時以降である必要があります。", decode[errorResponse](t, rec).Errors["end"])
	})

	t.Run("event keeps participant order", func(t *testing.T) {
		srv := newTestServer(t)
		event := testfixtures.NewEventFixture(testfixtures.WithEventEmployees("Dana", "Bob", "Dana"))

		rec := srv.do(t, http.MethodPost, "/api/event", eventRequest{
			Title:     event.Title,
			Start:     event.Start,
			End:       event.End,
			Employees: event.Employees,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, []string{"Dana", "Bob"}, decode[eventDTO](t, rec).Employees)
	})

	t.Run("checkin defaults create to checkin", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/api/checkin", checkinRequest{
			Employee: "Alice",
			Patient:  "Pat",
			Checkin:  "03/13/2024 8:15AM",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decode[checkinDTO](t, rec)
		assert.Equal(t, "03/13/2024 8:15AM", created.Create)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodPost, "/api/checkin", "{not json")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, errBadRequestBody.Error(), decode[errorResponse](t, rec).Message)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		srv := newTestServer(t)
		checkin := testfixtures.NewCheckinFixture()

		rec := srv.do(t, http.MethodPost, "/api/checkin", checkinRequest{
			Employee: checkin.Employee,
			Patient:  checkin.Patient,
			Checkin:  checkin.Checkin,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		id := decode[checkinDTO](t, rec).ID
		path := "/api/checkin/" + strconv.FormatInt(id, 10)

		rec = srv.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = srv.do(t, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad ids and methods", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodDelete, "/api/event/abc", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, errInvalidID.Error(), decode[errorResponse](t, rec).Message)

		rec = srv.do(t, http.MethodGet, "/api/event/1", nil)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodDelete, rec.Header().Get("Allow"))

		rec = srv.do(t, http.MethodGet, "/api/lead", nil)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	})
}

func TestEmployeeHandlers(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/employees", employeeRequest{Name: "  Alice Smith "})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[employeeDTO](t, rec)
	assert.Equal(t, "Alice Smith", created.Name)
	assert.Equal(t, "AS", created.Initials)

	rec = srv.do(t, http.MethodPost, "/api/employees", employeeRequest{Name: "Alice Smith"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", decode[errorResponse](t, rec).ErrorCode)

	rec = srv.do(t, http.MethodPost, "/api/employees", employeeRequest{Name: " "})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "名前は必須です。", decode[errorResponse](t, rec).Errors["name"])

	srv.do(t, http.MethodPost, "/api/lead", map[string]string{"employee": "bob", "firstname": "X"})

	rec = srv.do(t, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listEmployeesResponse](t, rec)
	require.Len(t, list.Employees, 2)
	assert.Equal(t, "bob", list.Employees[1].Name)
	assert.Equal(t, "B", list.Employees[1].Initials)

	rec = srv.do(t, http.MethodPut, "/api/employees", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCalendarHandlers(t *testing.T) {
	seed := func(t *testing.T, srv *testServer) {
		t.Helper()
		lead := testfixtures.NewLeadFixture(testfixtures.WithLeadCreate("03/11/2024 9:05AM"))
		rec := srv.do(t, http.MethodPost, "/api/lead", leadRequest{
			Employee: lead.Employee, Firstname: "Ada", Lastname: "Lovelace", Create: lead.Create,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = srv.do(t, http.MethodPost, "/api/event", eventRequest{
			Title:     "Standup",
			Start:     "03/12/2024 10:00AM",
			End:       "03/12/2024 11:30AM",
			Employees: []string{"Alice", "Bob"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("week view carries colours and labels", func(t *testing.T) {
		srv := newTestServer(t)
		seed(t, srv)

		rec := srv.do(t, http.MethodGet, "/api/calendar?week=03/13/2024", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Grid struct {
				Days    []calendar.DayHeader `json:"days"`
				Columns []calendar.Column    `json:"columns"`
			} `json:"grid"`
			Previous string `json:"previous_week"`
			Next     string `json:"next_week"`
			Items    []struct {
				Day        int    `json:"day"`
				Column     int    `json:"column"`
				Employee   string `json:"employee"`
				RecordKind string `json:"record_kind"`
				Color      string `json:"color"`
				TimeLabel  string `json:"time_label"`
				Summary    string `json:"summary"`
			} `json:"items"`
			Overlaps []calendar.Overlap `json:"overlaps"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		assert.Equal(t, "03/03/2024", body.Previous)
		assert.Equal(t, "03/17/2024", body.Next)
		require.Len(t, body.Grid.Days, 7)
		assert.Equal(t, "Sun 03/10", body.Grid.Days[0].Label)
		require.Len(t, body.Grid.Columns, 2)

		require.Len(t, body.Items, 3)
		lead := body.Items[0]
		assert.Equal(t, "Lead", lead.RecordKind)
		assert.Equal(t, "#2563eb", lead.Color)
		assert.Equal(t, "9:05am", lead.TimeLabel)
		assert.Equal(t, "Ada Lovelace", lead.Summary)
		assert.Equal(t, 1, lead.Day)

		for _, item := range body.Items[1:] {
			assert.Equal(t, "Event", item.RecordKind)
			assert.Equal(t, "#16a34a", item.Color)
			assert.Equal(t, "10:00am-11:30am", item.TimeLabel)
			assert.Equal(t, "Standup", item.Summary)
			assert.Equal(t, 2, item.Day)
		}
		assert.Equal(t, "Bob", body.Items[2].Employee)
		assert.Equal(t, 2, body.Items[2].Column)
		require.NotNil(t, body.Overlaps)
		assert.Empty(t, body.Overlaps)
	})

	t.Run("default week follows the clock", func(t *testing.T) {
		srv := newTestServer(t)
		seed(t, srv)
		srv.clock.Set(srv.clock.Now().AddDate(0, 0, 7))

		rec := srv.do(t, http.MethodGet, "/api/calendar", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Previous string            `json:"previous_week"`
			Items    []json.RawMessage `json:"items"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "03/10/2024", body.Previous)
		require.NotNil(t, body.Items)
		assert.Empty(t, body.Items)
	})

	t.Run("invalid week", func(t *testing.T) {
		srv := newTestServer(t)

		rec := srv.do(t, http.MethodGet, "/api/calendar?week=2024-03-13", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, errInvalidWeek.Error(), decode[errorResponse](t, rec).Message)
	})

	t.Run("conditional get", func(t *testing.T) {
		srv := newTestServer(t)
		seed(t, srv)

		for _, target := range []string{"/api/data", "/api/calendar?week=03/13/2024"} {
			rec := srv.do(t, http.MethodGet, target, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			etag := rec.Header().Get("ETag")
			require.NotEmpty(t, etag)

			rec = srv.do(t, http.MethodGet, target, nil, "If-None-Match", etag)
			require.Equal(t, http.StatusNotModified, rec.Code, target)
			assert.Empty(t, rec.Body.String())
		}

		rec := srv.do(t, http.MethodGet, "/api/data", nil)
		etag := rec.Header().Get("ETag")
		srv.do(t, http.MethodPost, "/api/employees", employeeRequest{Name: "Carol"})

		rec = srv.do(t, http.MethodGet, "/api/data", nil, "If-None-Match", etag)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEqual(t, etag, rec.Header().Get("ETag"))
	})

	t.Run("ics export", func(t *testing.T) {
		srv := newTestServer(t)
		seed(t, srv)

		rec := srv.do(t, http.MethodGet, "/api/calendar.ics?week=03/10/2024", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "calendar-2024-03-10.ics")

		body := rec.Body.String()
		assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
		assert.Contains(t, body, "SUMMARY:Standup")
		assert.Contains(t, body, "DTSTART:20240312T100000")

		rec = srv.do(t, http.MethodGet, "/api/calendar.ics?week=04/01/2024", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestFormHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/forms/Lead/QuickAdd", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	form := decode[formDTO](t, rec)
	assert.Equal(t, "quickadd", form.FormType)
	require.Len(t, form.Fields, 3)
	assert.Equal(t, "employee_id", form.Fields[0].Name)
	require.NotNil(t, form.Fields[0].ForeignTable)
	assert.Equal(t, "employees", *form.Fields[0].ForeignTable)
	assert.Equal(t, []string{"First Name", "Last Name"}, []string{form.Fields[1].Label, form.Fields[2].Label})
	assert.Empty(t, form.Subtabs)

	rec = srv.do(t, http.MethodGet, "/api/forms/Invoice/main", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/forms/Lead", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/forms/Lead/main", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
