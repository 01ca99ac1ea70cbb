package appointments

import "errors"

var (
	// ErrMissingFields is returned when a required booking field is empty.
	ErrMissingFields = errors.New("doctor, date, time and patient email are required")

	// ErrInvalidDate is returned for a date not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

	// ErrDoctorNotFound is returned when the requested doctor does not exist.
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrDoctorInactive is returned when the doctor is not accepting bookings.
	ErrDoctorInactive = errors.New("doctor is not accepting appointments")

	// ErrSlotTaken is returned when the (doctor, date, time) slot is already
	// reserved. Enforced by the database unique index, so two concurrent
	// clients can never both book the same slot.
	ErrSlotTaken = errors.New("this time slot is no longer available")
)
