package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/staff-calendar/internal/persistence"
)

type formService interface {
	GetForm(ctx context.Context, record, formType string) (persistence.Form, error)
}

type FormHandler struct {
	service   formService
	responder responder
}

func NewFormHandler(service formService, logger *slog.Logger) *FormHandler {
	return &FormHandler{service: service, responder: newResponder(logger)}
}

// Get serves the layout of one record's form.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request, record, formType string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	form, err := h.service.GetForm(r.Context(), record, formType)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toFormDTO(form))
}

type formDTO struct {
	ID       int64           `json:"id"`
	Record   string          `json:"record"`
	FormType string          `json:"form_type"`
	Label    string          `json:"label"`
	Fields   []formFieldDTO  `json:"fields"`
	Subtabs  []formSubtabDTO `json:"subtabs"`
}

type formFieldDTO struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	ForeignTable *string `json:"foreign_table,omitempty"`
	Label        string  `json:"label"`
	ReadOnly     bool    `json:"readonly"`
	Order        int     `json:"order"`
	SubtabID     *int64  `json:"subtab_id,omitempty"`
}

type formSubtabDTO struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Order int    `json:"order"`
}

func toFormDTO(form persistence.Form) formDTO {
	fields := make([]formFieldDTO, 0, len(form.Fields))
	for _, field := range form.Fields {
		fields = append(fields, formFieldDTO{
			ID:           field.ID,
			Name:         field.Name,
			Type:         field.Type,
			ForeignTable: field.ForeignTable,
			Label:        field.Label,
			ReadOnly:     field.ReadOnly,
			Order:        field.Order,
			SubtabID:     field.SubtabID,
		})
	}

	subtabs := make([]formSubtabDTO, 0, len(form.Subtabs))
	for _, subtab := range form.Subtabs {
		subtabs = append(subtabs, formSubtabDTO{ID: subtab.ID, Label: subtab.Label, Order: subtab.Order})
	}

	return formDTO{
		ID:       form.ID,
		Record:   form.Record,
		FormType: form.FormType,
		Label:    form.Label,
		Fields:   fields,
		Subtabs:  subtabs,
	}
}
