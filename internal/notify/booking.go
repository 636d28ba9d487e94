package notify

import (
	"context"
	"fmt"

	"github.com/wellmind/support-platform/internal/appointments"
	"github.com/wellmind/support-platform/pkg/logging"
)

var sessionTypeLabels = map[appointments.SessionType]string{
	appointments.SessionVideo:    "Video session",
	appointments.SessionPhone:    "Phone session",
	appointments.SessionInPerson: "In-person session",
}

// Service sends booking lifecycle emails. A failed email never fails the
// booking itself; the appointment is already persisted by the time the
// confirmation goes out.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// BookingConfirmed emails the user a confirmation for a freshly booked
// session. Best-effort: failures are logged, not returned.
func (s *Service) BookingConfirmed(ctx context.Context, toEmail string, appt *appointments.Appointment) {
	if s.email == nil || toEmail == "" || appt == nil {
		return
	}

	body, err := FormatBookingConfirmation(appt)
	if err != nil {
		s.logger.Warn("skipping confirmation email for unformattable booking",
			"appointment_id", appt.ID, "error", err)
		return
	}

	msg := EmailMessage{
		To:      toEmail,
		Subject: "Your support session is booked",
		Body:    body,
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("booking confirmation email failed",
			"appointment_id", appt.ID, "error", err)
		return
	}
	s.logger.Info("booking confirmation sent", "appointment_id", appt.ID)
}

// FormatBookingConfirmation builds the confirmation message body. Times are
// rendered in the organization timezone, the same zone booking runs in.
func FormatBookingConfirmation(appt *appointments.Appointment) (string, error) {
	occursAt, err := appt.OccursAt()
	if err != nil {
		return "", fmt.Errorf("notify: format confirmation: %w", err)
	}

	label, ok := sessionTypeLabels[appt.SessionType]
	if !ok {
		label = sessionTypeLabels[appointments.SessionVideo]
	}

	return fmt.Sprintf(
		"Your appointment is booked.\n\n"+
			"%s with %s\n"+
			"%s at %s (Mountain Time)\n\n"+
			"Need to change it? You can reschedule or cancel from the Appointments tab up until your session begins.",
		label,
		appt.DisplayWorkerName(),
		occursAt.Date.Display(),
		occursAt.Clock.Display(),
	), nil
}
