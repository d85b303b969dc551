package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/staff-calendar/internal/persistence"
)

// FormService serves form metadata for the client's dynamic forms.
type FormService struct {
	forms  persistence.FormRepository
	logger *slog.Logger
}

// NewFormService wires dependencies for the form service.
func NewFormService(forms persistence.FormRepository, logger *slog.Logger) *FormService {
	return &FormService{forms: forms, logger: defaultLogger(logger)}
}

// GetForm returns the layout of record's formType form.
func (s *FormService) GetForm(ctx context.Context, record, formType string) (persistence.Form, error) {
	if s == nil {
		return persistence.Form{}, fmt.Errorf("FormService is nil")
	}
	record = strings.TrimSpace(record)
	formType = strings.ToLower(strings.TrimSpace(formType))
	logger := serviceLogger(ctx, s.logger, "FormService", "GetForm", "record", record, "form_type", formType)

	vErr := &ValidationError{}
	if record == "" {
		vErr.add("record", "record is required")
	}
	if formType == "" {
		vErr.add("formType", "form type is required")
	}
	if vErr.HasErrors() {
		return persistence.Form{}, vErr
	}

	form, err := s.forms.GetForm(ctx, record, formType)
	if err != nil {
		err = translateRepositoryError(err)
		logger.Warn("form lookup failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.Form{}, err
	}
	return form, nil
}
