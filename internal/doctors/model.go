package doctors

import (
	"strings"
	"time"
)

// Gender values accepted for a doctor profile.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Doctor is a clinic dentist. Only active doctors are bookable or visible
// to patients.
type Doctor struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Specialty        string    `json:"specialty"`
	Gender           string    `json:"gender"`
	Bio              *string   `json:"bio,omitempty"`
	ImageURL         string    `json:"image_url"`
	IsActive         bool      `json:"is_active"`
	AppointmentCount int64     `json:"appointment_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateDoctorRequest is the admin payload for adding a doctor.
type CreateDoctorRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Specialty string  `json:"specialty"`
	Gender    string  `json:"gender"`
	Bio       *string `json:"bio,omitempty"`
	IsActive  bool    `json:"is_active"`
}

// Validate checks the required doctor fields.
func (r *CreateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" {
		return ErrNameEmailRequired
	}
	switch r.Gender {
	case GenderMale, GenderFemale:
	default:
		return ErrInvalidGender
	}
	return nil
}

// UpdateDoctorRequest is the admin payload for editing a doctor. The ID
// comes from the URL, not the body.
type UpdateDoctorRequest struct {
	ID        string  `json:"-"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Specialty string  `json:"specialty"`
	Gender    string  `json:"gender"`
	Bio       *string `json:"bio,omitempty"`
	IsActive  bool    `json:"is_active"`
}

// Validate checks the required doctor fields.
func (r *UpdateDoctorRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrDoctorNotFound
	}
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" {
		return ErrNameEmailRequired
	}
	return nil
}
