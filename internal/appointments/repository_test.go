package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/dentassist/dentassist-api/internal/doctors"
)

func newTestRepos(t *testing.T) (*InMemoryRepository, *doctors.Doctor, *doctors.Doctor) {
	t.Helper()
	docRepo := doctors.NewInMemoryRepository()
	active, err := docRepo.Create(context.Background(), &doctors.CreateDoctorRequest{
		Name:     "Amal Silva",
		Email:    "amal@clinic.lk",
		Gender:   doctors.GenderMale,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed active doctor: %v", err)
	}
	inactive, err := docRepo.Create(context.Background(), &doctors.CreateDoctorRequest{
		Name:     "Nuwan Fernando",
		Email:    "nuwan@clinic.lk",
		Gender:   doctors.GenderMale,
		IsActive: false,
	})
	if err != nil {
		t.Fatalf("seed inactive doctor: %v", err)
	}
	return NewInMemoryRepository(docRepo), active, inactive
}

func bookReq(doctorID string) *BookAppointmentRequest {
	reason := "Regular Checkup"
	return &BookAppointmentRequest{
		DoctorID:     doctorID,
		Date:         "2025-06-10",
		Time:         "09:00",
		PatientEmail: "pat@example.com",
		Reason:       &reason,
	}
}

func TestBook_Success(t *testing.T) {
	repo, doctor, _ := newTestRepos(t)

	appt, err := repo.Book(context.Background(), bookReq(doctor.ID))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.DoctorName != doctor.Name {
		t.Errorf("expected doctor name %q, got %q", doctor.Name, appt.DoctorName)
	}
	if appt.Status != StatusConfirmed {
		t.Errorf("expected status CONFIRMED, got %s", appt.Status)
	}
	if appt.Reason == nil || *appt.Reason != "Regular Checkup" {
		t.Errorf("reason not echoed: %v", appt.Reason)
	}
}

func TestBook_SlotTaken(t *testing.T) {
	repo, doctor, _ := newTestRepos(t)

	if _, err := repo.Book(context.Background(), bookReq(doctor.ID)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := repo.Book(context.Background(), bookReq(doctor.ID))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// Exactly one appointment exists.
	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("conflict must leave exactly one row, got %d", len(all))
	}
}

func TestBook_DifferentTimeSameDaySucceeds(t *testing.T) {
	repo, doctor, _ := newTestRepos(t)

	if _, err := repo.Book(context.Background(), bookReq(doctor.ID)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	second := bookReq(doctor.ID)
	second.Time = "09:30"
	second.PatientEmail = "other@example.com"
	if _, err := repo.Book(context.Background(), second); err != nil {
		t.Fatalf("second booking at a free slot: %v", err)
	}
}

func TestBook_InactiveDoctor(t *testing.T) {
	repo, _, inactive := newTestRepos(t)

	_, err := repo.Book(context.Background(), bookReq(inactive.ID))
	if !errors.Is(err, ErrDoctorInactive) {
		t.Fatalf("expected ErrDoctorInactive, got %v", err)
	}
}

func TestBook_UnknownDoctor(t *testing.T) {
	repo, _, _ := newTestRepos(t)

	_, err := repo.Book(context.Background(), bookReq("no-such-doctor"))
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestBook_Validation(t *testing.T) {
	repo, doctor, _ := newTestRepos(t)

	req := bookReq(doctor.ID)
	req.Time = ""
	if _, err := repo.Book(context.Background(), req); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	req = bookReq(doctor.ID)
	req.Date = "10/06/2025"
	if _, err := repo.Book(context.Background(), req); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestBookedSlots_ExcludesOtherDoctorsAndDates(t *testing.T) {
	repo, doctor, _ := newTestRepos(t)

	if _, err := repo.Book(context.Background(), bookReq(doctor.ID)); err != nil {
		t.Fatalf("booking: %v", err)
	}

	slots, err := repo.BookedSlots(context.Background(), doctor.ID, "2025-06-10")
	if err != nil {
		t.Fatalf("BookedSlots: %v", err)
	}
	if len(slots) != 1 || slots[0] != "09:00" {
		t.Fatalf("expected [09:00], got %v", slots)
	}

	slots, err = repo.BookedSlots(context.Background(), doctor.ID, "2025-06-11")
	if err != nil {
		t.Fatalf("BookedSlots other date: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a different date, got %v", slots)
	}
}

func TestListByEmail_OrdersByDateThenTime(t *testing.T) {
	repo, doctor, _ := newTestRepos(t)

	later := bookReq(doctor.ID)
	later.Date = "2025-06-12"
	if _, err := repo.Book(context.Background(), later); err != nil {
		t.Fatalf("book later: %v", err)
	}
	if _, err := repo.Book(context.Background(), bookReq(doctor.ID)); err != nil {
		t.Fatalf("book sooner: %v", err)
	}

	list, err := repo.ListByEmail(context.Background(), "pat@example.com")
	if err != nil {
		t.Fatalf("ListByEmail: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(list))
	}
	if list[0].Date != "2025-06-10" {
		t.Errorf("expected soonest first, got %s", list[0].Date)
	}
}
