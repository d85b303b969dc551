package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/staff-calendar/internal/application"
	"github.com/example/staff-calendar/internal/persistence"
)

type recordService interface {
	CreateLead(ctx context.Context, input application.LeadInput) (persistence.Lead, error)
	CreateEvent(ctx context.Context, input application.EventInput) (persistence.Event, error)
	CreateCheckin(ctx context.Context, input application.CheckinInput) (persistence.Checkin, error)
	DeleteLead(ctx context.Context, id int64) error
	DeleteEvent(ctx context.Context, id int64) error
	DeleteCheckin(ctx context.Context, id int64) error
}

type RecordHandler struct {
	service   recordService
	responder responder
}

func NewRecordHandler(service recordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{service: service, responder: newResponder(logger)}
}

func (h *RecordHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	lead, err := h.service.CreateLead(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toLeadDTO(lead))
}

func (h *RecordHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEventDTO(event))
}

func (h *RecordHandler) CreateCheckin(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	checkin, err := h.service.CreateCheckin(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCheckinDTO(checkin))
}

func (h *RecordHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, func(ctx context.Context, id int64) error { return h.service.DeleteLead(ctx, id) })
}

func (h *RecordHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, func(ctx context.Context, id int64) error { return h.service.DeleteEvent(ctx, id) })
}

func (h *RecordHandler) DeleteCheckin(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, func(ctx context.Context, id int64) error { return h.service.DeleteCheckin(ctx, id) })
}

func (h *RecordHandler) delete(w http.ResponseWriter, r *http.Request, remove func(context.Context, int64) error) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := RecordIDFromContext(r.Context())
	if !ok || id <= 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	if err := remove(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type leadRequest struct {
	Employee  string `json:"employee"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Create    string `json:"create"`
}

func (r leadRequest) toInput() application.LeadInput {
	return application.LeadInput{
		Employee:  r.Employee,
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Create:    r.Create,
	}
}

type eventRequest struct {
	Title     string   `json:"title"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Create    string   `json:"create"`
	Employees []string `json:"employees"`
}

func (r eventRequest) toInput() application.EventInput {
	return application.EventInput{
		Title:     r.Title,
		Start:     r.Start,
		End:       r.End,
		Create:    r.Create,
		Employees: r.Employees,
	}
}

type checkinRequest struct {
	Employee string `json:"employee"`
	Patient  string `json:"patient"`
	Notes    string `json:"notes"`
	Checkin  string `json:"checkin"`
	Create   string `json:"create"`
}

func (r checkinRequest) toInput() application.CheckinInput {
	return application.CheckinInput{
		Employee: r.Employee,
		Patient:  r.Patient,
		Notes:    r.Notes,
		Checkin:  r.Checkin,
		Create:   r.Create,
	}
}

type leadDTO struct {
	ID        int64  `json:"id"`
	Employee  string `json:"employee"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Create    string `json:"create"`
}

func toLeadDTO(lead persistence.Lead) leadDTO {
	return leadDTO{
		ID:        lead.ID,
		Employee:  lead.Employee,
		Firstname: lead.Firstname,
		Lastname:  lead.Lastname,
		Create:    lead.Create,
	}
}

type eventDTO struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Create    string   `json:"create"`
	Employees []string `json:"employees"`
}

func toEventDTO(event persistence.Event) eventDTO {
	employees := event.Participants
	if employees == nil {
		employees = []string{}
	}
	return eventDTO{
		ID:        event.ID,
		Title:     event.Title,
		Start:     event.Start,
		End:       event.End,
		Create:    event.Create,
		Employees: employees,
	}
}

type checkinDTO struct {
	ID       int64  `json:"id"`
	Employee string `json:"employee"`
	Patient  string `json:"patient"`
	Notes    string `json:"notes"`
	Checkin  string `json:"checkin"`
	Create   string `json:"create"`
}

func toCheckinDTO(checkin persistence.Checkin) checkinDTO {
	return checkinDTO{
		ID:       checkin.ID,
		Employee: checkin.Employee,
		Patient:  checkin.Patient,
		Notes:    checkin.Notes,
		Checkin:  checkin.Checkin,
		Create:   checkin.Create,
	}
}
