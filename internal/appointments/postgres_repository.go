package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// pgxDB is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Book verifies the doctor and inserts the appointment. The partial unique
// index on (doctor_id, date, time) makes the insert the authoritative
// double-booking check: the advisory availability query may be stale, the
// index never is.
func (r *PostgresRepository) Book(ctx context.Context, req *BookAppointmentRequest) (*Appointment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		doctorName  string
		doctorImage string
		isActive    bool
	)
	err := r.db.QueryRow(ctx,
		`SELECT name, image_url, is_active FROM doctors WHERE id = $1`,
		req.DoctorID,
	).Scan(&doctorName, &doctorImage, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("appointments: load doctor: %w", err)
	}
	if !isActive {
		return nil, ErrDoctorInactive
	}

	appt := &Appointment{
		ID:             uuid.New().String(),
		DoctorID:       req.DoctorID,
		DoctorName:     doctorName,
		DoctorImageURL: doctorImage,
		Date:           req.Date,
		Time:           req.Time,
		PatientEmail:   req.PatientEmail,
		Reason:         req.Reason,
		Status:         StatusConfirmed,
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, date, time, patient_email, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, appt.ID, req.DoctorID, req.Date, req.Time, req.PatientEmail, req.Reason, StatusConfirmed,
	).Scan(&appt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}
	return appt, nil
}

// BookedSlots returns the taken slot labels for a doctor on a date.
func (r *PostgresRepository) BookedSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT time FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status <> $3
		ORDER BY time ASC
	`, doctorID, date, StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("appointments: select slots: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("appointments: scan slot: %w", err)
		}
		out = append(out, label)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: slot rows: %w", err)
	}
	return out, nil
}

const appointmentColumns = `
	a.id, a.doctor_id, d.name, d.image_url, a.date, a.time,
	a.patient_email, a.reason, a.status, a.created_at
`

// ListByEmail returns a patient's appointments, soonest first.
func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]*Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.patient_email = $1
		ORDER BY a.date ASC, a.time ASC
	`
	return r.queryAppointments(ctx, query, email)
}

// ListAll returns every appointment, newest booking first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		ORDER BY a.created_at DESC
	`
	return r.queryAppointments(ctx, query)
}

func (r *PostgresRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID, &a.DoctorID, &a.DoctorName, &a.DoctorImageURL, &a.Date, &a.Time,
			&a.PatientEmail, &a.Reason, &a.Status, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows failed: %w", err)
	}
	return out, nil
}
