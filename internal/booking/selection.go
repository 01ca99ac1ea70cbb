// Package booking implements the appointment wizard: a per-session
// selection store persisted in Redis and the service that sequences the
// three steps (doctor, date/time/type, confirm).
package booking

// Wizard steps.
const (
	StepSelectDoctor = 1
	StepSelectTime   = 2
	StepConfirm      = 3
)

// BookedAppointment is the snapshot kept for the confirmation view after a
// successful booking. It survives the post-booking reset.
type BookedAppointment struct {
	ID             string  `json:"id"`
	DoctorName     string  `json:"doctor_name"`
	DoctorImageURL string  `json:"doctor_image_url"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	PatientEmail   string  `json:"patient_email"`
	Reason         *string `json:"reason"`
}

// Selection is the in-progress booking state for one session. DoctorID nil
// and empty strings mean "not chosen yet". Date and time are only
// meaningful once a doctor is set.
type Selection struct {
	DoctorID *string `json:"doctor_id"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	TypeID   string  `json:"type_id"`
	Step     int     `json:"step"`

	// Confirmation view state, deliberately outside the Reset lifecycle.
	BookedAppointment *BookedAppointment `json:"booked_appointment"`
	ShowConfirmation  bool               `json:"show_confirmation"`
}

// NewSelection returns the wizard's initial state.
func NewSelection() *Selection {
	return &Selection{Step: StepSelectDoctor}
}

// SelectDoctor sets the doctor and clears every downstream choice:
// availability is doctor-scoped, so switching doctors invalidates the
// date, time and type.
func (s *Selection) SelectDoctor(doctorID string) {
	s.DoctorID = &doctorID
	s.Date = ""
	s.Time = ""
	s.TypeID = ""
}

// SetDate sets the date and clears the time, which was chosen against the
// previous date's availability.
func (s *Selection) SetDate(date string) {
	s.Date = date
	s.Time = ""
}

// SetTime records the slot. Availability checking is the wizard's job, not
// the state's.
func (s *Selection) SetTime(timeLabel string) {
	s.Time = timeLabel
}

// SetType records the appointment type; no cross-field effects.
func (s *Selection) SetType(typeID string) {
	s.TypeID = typeID
}

// Reset restores the selection fields and step to their defaults. The
// booked appointment and confirmation visibility are left untouched so the
// confirmation view can render after the reset.
func (s *Selection) Reset() {
	s.DoctorID = nil
	s.Date = ""
	s.Time = ""
	s.TypeID = ""
	s.Step = StepSelectDoctor
}

// ReadyToConfirm reports whether the booking mutation may be invoked.
func (s *Selection) ReadyToConfirm() bool {
	return s.DoctorID != nil && s.Date != "" && s.Time != ""
}

// TimeSelectionComplete reports whether step 3 may be entered: type, date
// and time all chosen.
func (s *Selection) TimeSelectionComplete() bool {
	return s.TypeID != "" && s.Date != "" && s.Time != ""
}
