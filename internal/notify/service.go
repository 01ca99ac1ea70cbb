package notify

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dentassist/dentassist-api/internal/appointments"
	"github.com/dentassist/dentassist-api/internal/booking"
	"github.com/dentassist/dentassist-api/pkg/logging"
)

// Service builds and sends patient-facing notification emails. It satisfies
// booking.Notifier.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. A nil sender disables email
// silently so booking never depends on delivery being configured.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

var _ booking.Notifier = (*Service)(nil)

// SendAppointmentConfirmation emails the patient their booking details.
func (s *Service) SendAppointmentConfirmation(ctx context.Context, details booking.ConfirmationDetails) error {
	if s.email == nil {
		s.logger.Debug("notify: email sender not configured, skipping confirmation")
		return nil
	}
	if details.PatientEmail == "" {
		return fmt.Errorf("notify: patient email is required")
	}

	subject := "Your appointment is confirmed"
	if details.DoctorName != "" {
		subject = fmt.Sprintf("Your appointment with %s is confirmed", details.DoctorName)
	}

	msg := EmailMessage{
		To:      details.PatientEmail,
		Subject: subject,
		Body:    confirmationText(details),
		HTML:    confirmationHTML(details),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send confirmation: %w", err)
	}

	s.logger.Info("confirmation email sent",
		"patient_email", details.PatientEmail, "doctor", details.DoctorName,
		"date", details.Date, "time", details.Time)
	return nil
}

// friendlyDate renders "2025-06-10" as "Tuesday, June 10, 2025". Dates that
// fail to parse pass through unchanged.
func friendlyDate(date string) string {
	t, err := time.Parse(appointments.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func confirmationText(d booking.ConfirmationDetails) string {
	var b strings.Builder
	b.WriteString("Your dental appointment is confirmed.\n\n")
	if d.DoctorName != "" {
		fmt.Fprintf(&b, "Doctor: %s\n", d.DoctorName)
	}
	fmt.Fprintf(&b, "Date: %s\n", friendlyDate(d.Date))
	fmt.Fprintf(&b, "Time: %s\n", d.Time)
	if d.TypeName != "" {
		fmt.Fprintf(&b, "Treatment: %s", d.TypeName)
		if d.Duration != "" {
			fmt.Fprintf(&b, " (%s)", d.Duration)
		}
		b.WriteString("\n")
	}
	if d.Price != "" {
		fmt.Fprintf(&b, "Price: %s\n", d.Price)
	}
	b.WriteString("\nPlease arrive 10 minutes early. If you need to reschedule, contact the clinic.\n")
	return b.String()
}

func confirmationHTML(d booking.ConfirmationDetails) string {
	row := func(label, value string) string {
		if value == "" {
			return ""
		}
		return fmt.Sprintf("<tr><td style=\"padding:4px 12px 4px 0;color:#555\">%s</td><td style=\"padding:4px 0\"><strong>%s</strong></td></tr>",
			html.EscapeString(label), html.EscapeString(value))
	}

	treatment := d.TypeName
	if treatment != "" && d.Duration != "" {
		treatment = fmt.Sprintf("%s (%s)", d.TypeName, d.Duration)
	}

	var b strings.Builder
	b.WriteString("<h2>Appointment confirmed</h2>")
	b.WriteString("<p>Your dental appointment is booked. Here are the details:</p>")
	b.WriteString("<table>")
	b.WriteString(row("Doctor", d.DoctorName))
	b.WriteString(row("Date", friendlyDate(d.Date)))
	b.WriteString(row("Time", d.Time))
	b.WriteString(row("Treatment", treatment))
	b.WriteString(row("Price", d.Price))
	b.WriteString("</table>")
	b.WriteString("<p>Please arrive 10 minutes early. If you need to reschedule, contact the clinic.</p>")
	return b.String()
}
