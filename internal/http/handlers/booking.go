package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wellmind/support-platform/internal/appointments"
	"github.com/wellmind/support-platform/internal/booking"
	httpmiddleware "github.com/wellmind/support-platform/internal/http/middleware"
	"github.com/wellmind/support-platform/internal/notify"
	"github.com/wellmind/support-platform/internal/observability/metrics"
	"github.com/wellmind/support-platform/internal/schedule"
	"github.com/wellmind/support-platform/pkg/logging"
)

// BookingStore is the write side of the appointment store.
type BookingStore interface {
	Insert(ctx context.Context, b appointments.NewBooking) (*appointments.Appointment, error)
	Cancel(ctx context.Context, userID, id string) error
}

// BookingHandler serves the booking wizard's backend: the offerable slot
// window and the final submission.
type BookingHandler struct {
	store    BookingStore
	notifier *notify.Service
	metrics  *metrics.SchedulingMetrics
	logger   *logging.Logger
}

// NewBookingHandler creates a booking handler. Notifier and metrics are
// optional.
func NewBookingHandler(store BookingStore, notifier *notify.Service, m *metrics.SchedulingMetrics, logger *logging.Logger) *BookingHandler {
	if store == nil {
		panic("handlers: booking store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{store: store, notifier: notifier, metrics: m, logger: logger}
}

// SlotTime is one entry of the daily grid, with its same-day availability.
type SlotTime struct {
	Time       string `json:"time"`
	Display    string `json:"display"`
	Selectable bool   `json:"selectable"`
}

// SlotDate is one offerable day with its time grid.
type SlotDate struct {
	Date    string     `json:"date"`
	Display string     `json:"display"`
	Times   []SlotTime `json:"times"`
}

// SlotWindowResponse is the full booking window for "now".
type SlotWindowResponse struct {
	Dates []SlotDate `json:"dates"`
}

// GetSlots returns the rolling booking window.
// GET /api/booking/slots
func (h *BookingHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	h.metrics.ObserveSlotRequest()

	now := schedule.Now()
	grid := schedule.OfferableTimes()

	resp := SlotWindowResponse{Dates: make([]SlotDate, 0, schedule.BookingWindowDays)}
	for _, date := range schedule.OfferableDates(now) {
		day := SlotDate{
			Date:    date.ISO(),
			Display: date.Display(),
			Times:   make([]SlotTime, 0, len(grid)),
		}
		for _, t := range grid {
			day.Times = append(day.Times, SlotTime{
				Time:       t.String(),
				Display:    t.Display(),
				Selectable: schedule.TimeSelectable(date, t, now),
			})
		}
		resp.Dates = append(resp.Dates, day)
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateBookingRequest carries the wizard's serialized draft parameters
// plus the address confirmation email goes to.
type CreateBookingRequest struct {
	Params map[string]string `json:"params"`
	Email  string            `json:"email,omitempty"`
}

// CreateBooking validates a serialized draft and persists the reservation.
// POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	now := schedule.Now()
	draft, err := booking.DraftFromParams(req.Params, now)
	if err != nil {
		h.metrics.ObserveBooking("rejected", req.Params[booking.ParamReschedule] == "1")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	if !draft.CanProceed() {
		h.metrics.ObserveBooking("rejected", draft.RescheduleOf() != "")
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "date and time are required"})
		return
	}

	date, _ := draft.Date()
	slot, _ := draft.Time()
	appt, err := h.store.Insert(r.Context(), appointments.NewBooking{
		UserID:       userID,
		SessionType:  draft.SessionType(),
		Date:         date,
		Time:         slot,
		Notes:        draft.Notes(),
		RescheduleOf: draft.RescheduleOf(),
	})
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			h.metrics.ObserveBooking("rejected", true)
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "original appointment no longer exists"})
			return
		}
		h.metrics.ObserveBooking("failed", draft.RescheduleOf() != "")
		h.logger.Error("booking submission failed", "user_id", userID, "error", err)
		// The client keeps its draft; the user retries without re-entering
		// selections.
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "booking could not be submitted"})
		return
	}

	h.metrics.ObserveBooking("created", appt.RescheduledFrom != "")
	h.logger.Info("booking created",
		"user_id", userID, "appointment_id", appt.ID, "date", appt.Date, "time", appt.Time)

	if h.notifier != nil {
		h.notifier.BookingConfirmed(r.Context(), req.Email, appt)
	}

	writeJSON(w, http.StatusCreated, appt)
}

// CancelBooking marks a live appointment cancelled.
// POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpmiddleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user context", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing appointment id", http.StatusBadRequest)
		return
	}

	if err := h.store.Cancel(r.Context(), userID, id); err != nil {
		if errors.Is(err, appointments.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no live appointment with that id"})
			return
		}
		h.logger.Error("cancel failed", "user_id", userID, "appointment_id", id, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "cancellation could not be submitted"})
		return
	}

	h.logger.Info("appointment cancelled", "user_id", userID, "appointment_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
