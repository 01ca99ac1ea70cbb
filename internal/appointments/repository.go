package appointments

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dentassist/dentassist-api/internal/doctors"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	// Book creates exactly one appointment or fails without side effects.
	// Double-booking is rejected with ErrSlotTaken.
	Book(ctx context.Context, req *BookAppointmentRequest) (*Appointment, error)
	// BookedSlots returns the taken slot labels for a doctor on a date,
	// excluding cancelled appointments.
	BookedSlots(ctx context.Context, doctorID, date string) ([]string, error)
	// ListByEmail returns a patient's appointments, soonest first.
	ListByEmail(ctx context.Context, email string) ([]*Appointment, error)
	// ListAll returns every appointment for the admin dashboard, newest
	// booking first.
	ListAll(ctx context.Context) ([]*Appointment, error)
}

// InMemoryRepository keeps appointments in memory; it needs a doctors
// repository to resolve display fields and the active flag, mirroring the
// join the Postgres implementation does.
type InMemoryRepository struct {
	mu      sync.RWMutex
	rows    map[string]*Appointment
	bySlot  map[string]string // "doctorID|date|time" -> appointment id
	doctors doctors.Repository
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository(doctorRepo doctors.Repository) *InMemoryRepository {
	return &InMemoryRepository{
		rows:    make(map[string]*Appointment),
		bySlot:  make(map[string]string),
		doctors: doctorRepo,
	}
}

func slotKey(doctorID, date, timeLabel string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, date, timeLabel)
}

// Book creates an appointment after checking the doctor and the slot.
func (r *InMemoryRepository) Book(ctx context.Context, req *BookAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doctor, err := r.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.IsActive {
		return nil, ErrDoctorInactive
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(req.DoctorID, req.Date, req.Time)
	if _, taken := r.bySlot[key]; taken {
		return nil, ErrSlotTaken
	}

	appt := &Appointment{
		ID:             uuid.New().String(),
		DoctorID:       doctor.ID,
		DoctorName:     doctor.Name,
		DoctorImageURL: doctor.ImageURL,
		Date:           req.Date,
		Time:           req.Time,
		PatientEmail:   req.PatientEmail,
		Reason:         req.Reason,
		Status:         StatusConfirmed,
		CreatedAt:      time.Now().UTC(),
	}
	r.rows[appt.ID] = appt
	r.bySlot[key] = appt.ID

	copied := *appt
	return &copied, nil
}

// BookedSlots returns taken labels for the doctor/date pair.
func (r *InMemoryRepository) BookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, a := range r.rows {
		if a.DoctorID == doctorID && a.Date == date && a.Status != StatusCancelled {
			out = append(out, a.Time)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ListByEmail returns the patient's appointments ordered by date then time.
func (r *InMemoryRepository) ListByEmail(ctx context.Context, email string) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, a := range r.rows {
		if a.PatientEmail == email {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// ListAll returns every appointment, newest booking first.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.rows))
	for _, a := range r.rows {
		copied := *a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
