package handlers

import (
	"net/http"

	"github.com/wellmind/support-platform/internal/appointments"
	httpmiddleware "github.com/wellmind/support-platform/internal/http/middleware"
	"github.com/wellmind/support-platform/pkg/logging"
)

// AppointmentsHandler serves the dashboard summary and the classified
// appointment lists.
type AppointmentsHandler struct {
	service *appointments.Service
	logger  *logging.Logger
}

// NewAppointmentsHandler creates an appointments handler.
func NewAppointmentsHandler(service *appointments.Service, logger *logging.Logger) *AppointmentsHandler {
	if service == nil {
		panic("handlers: appointments service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{service: service, logger: logger}
}

// GetDashboard returns badge counts and the next-session card.
// GET /api/appointments/dashboard
func (h *AppointmentsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	dash := h.service.Dashboard(r.Context(), userID)
	writeJSON(w, http.StatusOK, dash)
}

// ListResponse wraps the classified buckets with the degraded-data notice.
type ListResponse struct {
	Upcoming        []appointments.Appointment `json:"upcoming"`
	Past            []appointments.Appointment `json:"past"`
	Cancelled       []appointments.Appointment `json:"cancelled"`
	DataUnavailable bool                       `json:"data_unavailable,omitempty"`
}

// ListAppointments returns the user's appointments bucketed by display
// status. A store failure degrades to empty lists with a notice flag
// rather than an error page; stale data is never served.
// GET /api/appointments
func (h *AppointmentsHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	lists, err := h.service.Lists(r.Context(), userID)
	if err != nil {
		h.logger.Error("appointment list fetch failed", "user_id", userID, "error", err)
		writeJSON(w, http.StatusOK, ListResponse{
			Upcoming:        []appointments.Appointment{},
			Past:            []appointments.Appointment{},
			Cancelled:       []appointments.Appointment{},
			DataUnavailable: true,
		})
		return
	}

	resp := ListResponse{
		Upcoming:  lists.Upcoming,
		Past:      lists.Past,
		Cancelled: lists.Cancelled,
	}
	if resp.Upcoming == nil {
		resp.Upcoming = []appointments.Appointment{}
	}
	if resp.Past == nil {
		resp.Past = []appointments.Appointment{}
	}
	if resp.Cancelled == nil {
		resp.Cancelled = []appointments.Appointment{}
	}
	writeJSON(w, http.StatusOK, resp)
}
