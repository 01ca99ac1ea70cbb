package appointments

import (
	"strings"
	"time"
)

// Appointment statuses.
const (
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// DateLayout is the calendar-date wire format for appointments.
const DateLayout = "2006-01-02"

// Appointment is a booked visit, joined with the doctor's display fields
// so confirmation views need no second lookup.
type Appointment struct {
	ID             string    `json:"id"`
	DoctorID       string    `json:"doctor_id"`
	DoctorName     string    `json:"doctor_name"`
	DoctorImageURL string    `json:"doctor_image_url"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	PatientEmail   string    `json:"patient_email"`
	Reason         *string   `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// BookAppointmentRequest is the input to the booking mutation.
type BookAppointmentRequest struct {
	DoctorID     string  `json:"doctor_id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	PatientEmail string  `json:"patient_email"`
	Reason       *string `json:"reason"`
}

// Validate checks required fields and the date format. Slot-availability
// checks belong to the persistence layer, not here.
func (r *BookAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.DoctorID) == "" ||
		strings.TrimSpace(r.Date) == "" ||
		strings.TrimSpace(r.Time) == "" ||
		strings.TrimSpace(r.PatientEmail) == "" {
		return ErrMissingFields
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
