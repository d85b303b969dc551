package http

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/staff-calendar/internal/application"
	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/ics"
)

type calendarService interface {
	CurrentWeek() time.Time
	Snapshot(ctx context.Context) ([]calendar.EmployeeData, error)
	Week(ctx context.Context, ref time.Time) (application.WeekView, error)
	WeekEvents(ctx context.Context, ref time.Time) (application.WeekEvents, error)
}

// Palette colours per record kind.
var kindColors = map[calendar.RecordKind]string{
	calendar.KindLead:           "#2563eb",
	calendar.KindEvent:          "#16a34a",
	calendar.KindPatientCheckin: "#ea580c",
}

const fallbackColor = "#6b7280"

type CalendarHandler struct {
	service   calendarService
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(logger), logger: logger}
}

// Data serves the full snapshot.
func (h *CalendarHandler) Data(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeCachedJSON(r.Context(), w, r, snapshot)
}

// Week serves the grid and positioned items of one week.
func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ref, ok := h.weekParam(w, r)
	if !ok {
		return
	}

	view, err := h.service.Week(r.Context(), ref)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeCachedJSON(r.Context(), w, r, toWeekResponse(view))
}

// Export serves the week's events as text/calendar; 204 when there are none.
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ref, ok := h.weekParam(w, r)
	if !ok {
		return
	}

	week, err := h.service.WeekEvents(r.Context(), ref)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var body bytes.Buffer
	if err := ics.Encode(&body, week.Events, ics.Options{}); err != nil {
		if errors.Is(err, ics.ErrNoEvents) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.responder.writeError(r.Context(), w, http.StatusInternalServerError, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "CalendarHandler", "Export").DebugContext(r.Context(), "exporting week",
		"week_start", week.WeekStart.Format(calendar.DateLayout),
		"events", len(week.Events),
	)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar-`+week.WeekStart.Format("2006-01-02")+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}

func (h *CalendarHandler) weekParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("week"))
	if raw == "" {
		return h.service.CurrentWeek(), true
	}
	ref, err := calendar.ParseDate(raw)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidWeek)
		return time.Time{}, false
	}
	return ref, true
}

type weekResponse struct {
	Grid     calendar.Grid      `json:"grid"`
	Previous string             `json:"previous_week"`
	Next     string             `json:"next_week"`
	Items    []itemDTO          `json:"items"`
	Overlaps []calendar.Overlap `json:"overlaps"`
}

type itemDTO struct {
	calendar.PositionedItem
	Color     string `json:"color"`
	TimeLabel string `json:"time_label"`
	Summary   string `json:"summary"`
}

func toWeekResponse(view application.WeekView) weekResponse {
	weekStart := view.Grid.WeekStart
	items := make([]itemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, toItemDTO(weekStart, item))
	}
	overlaps := view.Overlaps
	if overlaps == nil {
		overlaps = []calendar.Overlap{}
	}
	return weekResponse{
		Grid:     view.Grid,
		Previous: calendar.PrevWeek(weekStart).Format(calendar.DateLayout),
		Next:     calendar.NextWeek(weekStart).Format(calendar.DateLayout),
		Items:    items,
		Overlaps: overlaps,
	}
}

func toItemDTO(weekStart time.Time, item calendar.PositionedItem) itemDTO {
	color, ok := kindColors[item.RecordKind]
	if !ok {
		color = fallbackColor
	}

	start := weekStart.AddDate(0, 0, item.Day).Add(time.Duration(item.StartMinute) * time.Minute)
	label := calendar.FormatTimeLabel(start)
	if item.Shape == calendar.ShapeInterval {
		label = calendar.FormatRange(start, start.Add(time.Duration(item.DurationMinutes)*time.Minute))
	}

	return itemDTO{
		PositionedItem: item,
		Color:          color,
		TimeLabel:      label,
		Summary:        summarize(item.Record),
	}
}

func summarize(record calendar.Record) string {
	switch rec := record.(type) {
	case calendar.LeadRecord:
		return strings.TrimSpace(rec.Firstname + " " + rec.Lastname)
	case calendar.EventRecord:
		return rec.Title
	case calendar.PatientCheckinRecord:
		return rec.Patient
	}
	return ""
}
