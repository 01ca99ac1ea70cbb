package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dentassist/dentassist-api/internal/appointments"
	"github.com/dentassist/dentassist-api/internal/observability/metrics"
	"github.com/dentassist/dentassist-api/pkg/logging"
)

var bookingTracer trace.Tracer = otel.Tracer("dentassist.internal.booking")

// Availability reports which slots are already taken. It is advisory: the
// persistence layer is the authority on double-booking.
type Availability interface {
	BookedSlots(ctx context.Context, doctorID, date string) ([]string, error)
}

// Booker performs the atomic booking mutation.
type Booker interface {
	Book(ctx context.Context, req *appointments.BookAppointmentRequest) (*appointments.Appointment, error)
}

// ConfirmationDetails carries everything the confirmation email needs.
type ConfirmationDetails struct {
	PatientEmail string
	DoctorName   string
	Date         string
	Time         string
	TypeName     string
	Duration     string
	Price        string
}

// Notifier sends the post-booking confirmation email.
type Notifier interface {
	SendAppointmentConfirmation(ctx context.Context, details ConfirmationDetails) error
}

// Service runs the booking wizard for each session: it loads the persisted
// selection, applies one action, and saves the result.
type Service struct {
	store     *Store
	avail     Availability
	booker    Booker
	notifier  Notifier
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	emailWait time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService constructs a wizard service. The notifier and metrics may be
// nil; booking then proceeds without email or instrumentation.
func NewService(store *Store, avail Availability, booker Booker, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("booking: store required")
	}
	if avail == nil || booker == nil {
		panic("booking: availability and booker required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:     store,
		avail:     avail,
		booker:    booker,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		emailWait: 10 * time.Second,
		locks:     make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the per-session mutex, creating it on first use.
// Serializing per session keeps a double-submitted confirm from racing
// itself; cross-session races are handled by the persistence layer.
func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// State returns the session's current selection.
func (s *Service) State(ctx context.Context, sessionID string) (*Selection, error) {
	return s.store.Load(ctx, sessionID)
}

// SelectDoctor chooses a doctor, clearing date, time and type.
func (s *Service) SelectDoctor(ctx context.Context, sessionID, doctorID string) (*Selection, error) {
	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sel.SelectDoctor(doctorID)
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// SetDate chooses a date, clearing the time. A doctor must be chosen first.
func (s *Service) SetDate(ctx context.Context, sessionID, date string) (*Selection, error) {
	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.DoctorID == nil {
		return nil, ErrDoctorRequired
	}
	if _, err := time.Parse(appointments.DateLayout, date); err != nil {
		return nil, appointments.ErrInvalidDate
	}
	sel.SetDate(date)
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// SetTime chooses a slot. The label must be in the bookable grid and not
// already taken for the selected doctor and date.
func (s *Service) SetTime(ctx context.Context, sessionID, timeLabel string) (*Selection, error) {
	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sel.DoctorID == nil || sel.Date == "" {
		return nil, ErrDoctorRequired
	}
	if !validSlotLabel(timeLabel) {
		return nil, ErrSlotUnavailable
	}
	taken, err := s.avail.BookedSlots(ctx, *sel.DoctorID, sel.Date)
	if err != nil {
		return nil, err
	}
	for _, t := range taken {
		if t == timeLabel {
			return nil, ErrSlotUnavailable
		}
	}
	sel.SetTime(timeLabel)
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// SetType chooses the appointment type; it must exist in the catalog.
func (s *Service) SetType(ctx context.Context, sessionID, typeID string) (*Selection, error) {
	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := appointments.TypeByID(typeID); !ok {
		return nil, ErrUnknownType
	}
	sel.SetType(typeID)
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// SetStep moves the wizard to the given step after checking its
// prerequisites: step 2 needs a doctor, step 3 a complete time selection.
// Moving backwards is always allowed.
func (s *Service) SetStep(ctx context.Context, sessionID string, step int) (*Selection, error) {
	if step < StepSelectDoctor || step > StepConfirm {
		return nil, ErrInvalidStep
	}
	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if step > sel.Step {
		if step >= StepSelectTime && sel.DoctorID == nil {
			return nil, ErrDoctorRequired
		}
		if step == StepConfirm && !sel.TimeSelectionComplete() {
			return nil, ErrInvalidStep
		}
	}
	sel.Step = step
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Confirm books the selected slot for the patient. On success it records
// the appointment snapshot, fires the confirmation email without waiting
// for it, shows the confirmation view, and resets the selection for the
// next booking. On a slot conflict the selection is left unchanged.
func (s *Service) Confirm(ctx context.Context, sessionID, patientEmail string) (*Selection, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	ctx, span := bookingTracer.Start(ctx, "booking.confirm")
	defer span.End()
	start := time.Now()

	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sel.ReadyToConfirm() {
		s.metrics.ObserveBooking("incomplete")
		return nil, ErrIncompleteSelection
	}

	span.SetAttributes(
		attribute.String("dentassist.doctor_id", *sel.DoctorID),
		attribute.String("dentassist.date", sel.Date),
		attribute.String("dentassist.time", sel.Time),
	)

	var reason *string
	typeName, duration, price := "", "", ""
	if typ, ok := appointments.TypeByID(sel.TypeID); ok {
		name := typ.Name
		reason = &name
		typeName, duration, price = typ.Name, typ.Duration, typ.Price
	}

	appt, err := s.booker.Book(ctx, &appointments.BookAppointmentRequest{
		DoctorID:     *sel.DoctorID,
		Date:         sel.Date,
		Time:         sel.Time,
		PatientEmail: patientEmail,
		Reason:       reason,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, appointments.ErrSlotTaken) {
			s.metrics.ObserveBooking("conflict")
			s.metrics.ObserveConflict()
			s.logger.Warn("slot conflict on confirm",
				"session_id", sessionID, "doctor_id", *sel.DoctorID,
				"date", sel.Date, "time", sel.Time)
		} else {
			s.metrics.ObserveBooking("error")
		}
		return nil, err
	}

	sel.BookedAppointment = &BookedAppointment{
		ID:             appt.ID,
		DoctorName:     appt.DoctorName,
		DoctorImageURL: appt.DoctorImageURL,
		Date:           appt.Date,
		Time:           appt.Time,
		PatientEmail:   appt.PatientEmail,
		Reason:         appt.Reason,
	}

	s.sendConfirmationAsync(ConfirmationDetails{
		PatientEmail: appt.PatientEmail,
		DoctorName:   appt.DoctorName,
		Date:         appt.Date,
		Time:         appt.Time,
		TypeName:     typeName,
		Duration:     duration,
		Price:        price,
	})

	sel.ShowConfirmation = true
	sel.Reset()
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}

	s.metrics.ObserveBooking("success")
	s.metrics.ObserveConfirmLatency(time.Since(start).Seconds())
	s.logger.Info("appointment booked",
		"session_id", sessionID, "appointment_id", appt.ID,
		"doctor_id", appt.DoctorID, "date", appt.Date, "time", appt.Time)
	return sel, nil
}

// sendConfirmationAsync delivers the confirmation email in the background.
// A failed or missing notifier never fails the booking. The goroutine gets
// its own deadline because the request context ends with the response.
func (s *Service) sendConfirmationAsync(details ConfirmationDetails) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.emailWait)
		defer cancel()
		if err := s.notifier.SendAppointmentConfirmation(ctx, details); err != nil {
			s.metrics.ObserveEmail("failure")
			s.logger.Error("confirmation email failed",
				"patient_email", details.PatientEmail, "error", err)
			return
		}
		s.metrics.ObserveEmail("success")
	}()
}

// DismissConfirmation hides the confirmation view and drops the booked
// appointment snapshot.
func (s *Service) DismissConfirmation(ctx context.Context, sessionID string) (*Selection, error) {
	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sel.ShowConfirmation = false
	sel.BookedAppointment = nil
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Reset clears the selection fields and returns to step 1. Confirmation
// state is preserved.
func (s *Service) Reset(ctx context.Context, sessionID string) (*Selection, error) {
	sel, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sel.Reset()
	if err := s.store.Save(ctx, sessionID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// BookedSlots returns the taken slots for a doctor/date pair. Empty
// arguments short-circuit to an empty set rather than querying.
func (s *Service) BookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if doctorID == "" || date == "" {
		return []string{}, nil
	}
	slots, err := s.avail.BookedSlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

func validSlotLabel(label string) bool {
	for _, l := range appointments.SlotLabels() {
		if l == label {
			return true
		}
	}
	return false
}
