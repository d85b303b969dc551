package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/staff-calendar/internal/calendar"
	"github.com/example/staff-calendar/internal/persistence"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, name string) (persistence.Employee, error)
	ListEmployees(ctx context.Context) ([]persistence.Employee, error)
}

type EmployeeHandler struct {
	service   employeeService
	responder responder
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{service: service, responder: newResponder(logger)}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	employee, err := h.service.CreateEmployee(r.Context(), req.Name)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEmployeeDTO(employee))
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEmployeesResponse{Employees: toEmployeeDTOs(employees)})
}

type employeeRequest struct {
	Name string `json:"name"`
}

type employeeDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

type listEmployeesResponse struct {
	Employees []employeeDTO `json:"employees"`
}

func toEmployeeDTO(employee persistence.Employee) employeeDTO {
	return employeeDTO{
		ID:       employee.ID,
		Name:     employee.Name,
		Initials: calendar.Initials(employee.Name),
	}
}

func toEmployeeDTOs(employees []persistence.Employee) []employeeDTO {
	result := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		result = append(result, toEmployeeDTO(employee))
	}
	return result
}
