package doctors

import "errors"

var (
	// ErrNameEmailRequired is returned when name or email is missing.
	ErrNameEmailRequired = errors.New("name and email are required")

	// ErrInvalidGender is returned for a gender outside the accepted set.
	ErrInvalidGender = errors.New("gender must be MALE or FEMALE")

	// ErrDuplicateEmail is returned when another doctor already uses the email.
	ErrDuplicateEmail = errors.New("a doctor with this email already exists")

	// ErrDoctorNotFound is returned when the doctor does not exist.
	ErrDoctorNotFound = errors.New("doctor not found")
)
