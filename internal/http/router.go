package http

import (
	"net/http"
	"strconv"
	"strings"
)

type RouterConfig struct {
	Calendar   *CalendarHandler
	Records    *RecordHandler
	Employees  *EmployeeHandler
	Forms      *FormHandler
	Health     *HealthHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Calendar != nil {
		mux.HandleFunc("/api/data", getOnly(cfg.Calendar.Data))
		mux.HandleFunc("/api/calendar", getOnly(cfg.Calendar.Week))
		mux.HandleFunc("/api/calendar.ics", getOnly(cfg.Calendar.Export))
	}

	if cfg.Employees != nil {
		mux.HandleFunc("/api/employees", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Employees.List(w, r)
			case http.MethodPost:
				cfg.Employees.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
	}

	if cfg.Records != nil {
		recordRoutes(mux, "/api/lead", cfg.Records.CreateLead, cfg.Records.DeleteLead)
		recordRoutes(mux, "/api/event", cfg.Records.CreateEvent, cfg.Records.DeleteEvent)
		recordRoutes(mux, "/api/checkin", cfg.Records.CreateCheckin, cfg.Records.DeleteCheckin)
	}

	if cfg.Forms != nil {
		mux.HandleFunc("/api/forms/", func(w http.ResponseWriter, r *http.Request) {
			record, formType, ok := strings.Cut(strings.TrimPrefix(r.URL.Path, "/api/forms/"), "/")
			if !ok || record == "" || formType == "" || strings.Contains(formType, "/") {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Forms.Get(w, r, record, formType)
		})
	}

	if cfg.Health != nil {
		mux.HandleFunc("/health", getOnly(cfg.Health.Check))
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// recordRoutes mounts POST base and DELETE base/{id}.
func recordRoutes(mux *http.ServeMux, base string, create, remove http.HandlerFunc) {
	mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		create(w, r)
	})
	mux.HandleFunc(base+"/", func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.URL.Path, base+"/")
		if raw == "" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, http.MethodDelete)
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			id = 0
		}
		remove(w, r.WithContext(ContextWithRecordID(r.Context(), id)))
	})
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		next(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
