package doctors

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

// PostgresRepository stores doctors in the relational database.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const doctorColumns = `
	d.id, d.name, d.email, d.phone, d.specialty, d.gender, d.bio,
	d.image_url, d.is_active, d.created_at, d.updated_at,
	COUNT(a.id) AS appointment_count
`

const doctorGroupBy = `
	GROUP BY d.id, d.name, d.email, d.phone, d.specialty, d.gender, d.bio,
		d.image_url, d.is_active, d.created_at, d.updated_at
`

// ListAvailable returns active doctors with appointment counts, ordered by
// name ascending. Inactive doctors are excluded at the query level so they
// can never be selected.
func (r *PostgresRepository) ListAvailable(ctx context.Context) ([]*Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		LEFT JOIN appointments a ON a.doctor_id = d.id
		WHERE d.is_active = TRUE
		` + doctorGroupBy + `
		ORDER BY d.name ASC
	`
	return r.queryDoctors(ctx, query)
}

// ListAll returns every doctor, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		LEFT JOIN appointments a ON a.doctor_id = d.id
		` + doctorGroupBy + `
		ORDER BY d.created_at DESC
	`
	return r.queryDoctors(ctx, query)
}

func (r *PostgresRepository) queryDoctors(ctx context.Context, query string, args ...any) ([]*Doctor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("doctors: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Email, &d.Phone, &d.Specialty, &d.Gender, &d.Bio,
			&d.ImageURL, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
			&d.AppointmentCount,
		); err != nil {
			return nil, fmt.Errorf("doctors: scan failed: %w", err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("doctors: rows failed: %w", err)
	}
	return out, nil
}

// GetByID fetches a single doctor.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM doctors d
		LEFT JOIN appointments a ON a.doctor_id = d.id
		WHERE d.id = $1
		` + doctorGroupBy
	var d Doctor
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Email, &d.Phone, &d.Specialty, &d.Gender, &d.Bio,
		&d.ImageURL, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.AppointmentCount,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select by id failed: %w", err)
	}
	return &d, nil
}

// Create inserts a new doctor with a generated avatar.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	imageURL := AvatarURL(req.Name)
	query := `
		INSERT INTO doctors (id, name, email, phone, specialty, gender, bio, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	d := Doctor{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		Gender:    req.Gender,
		Bio:       req.Bio,
		ImageURL:  imageURL,
		IsActive:  req.IsActive,
	}
	if err := r.db.QueryRow(ctx, query,
		id, req.Name, req.Email, req.Phone, req.Specialty, req.Gender, req.Bio, imageURL, req.IsActive,
	).Scan(&d.CreatedAt, &d.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("doctors: insert failed: %w", err)
	}
	return &d, nil
}

// Update edits an existing doctor.
func (r *PostgresRepository) Update(ctx context.Context, req *UpdateDoctorRequest) (*Doctor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE doctors
		SET name = $2, email = $3, phone = $4, specialty = $5, gender = $6,
			bio = $7, is_active = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING image_url, created_at, updated_at
	`
	d := Doctor{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		Gender:    req.Gender,
		Bio:       req.Bio,
		IsActive:  req.IsActive,
	}
	if err := r.db.QueryRow(ctx, query,
		req.ID, req.Name, req.Email, req.Phone, req.Specialty, req.Gender, req.Bio, req.IsActive,
	).Scan(&d.ImageURL, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("doctors: update failed: %w", err)
	}
	return &d, nil
}

// SetImageURL replaces the avatar reference.
func (r *PostgresRepository) SetImageURL(ctx context.Context, id, imageURL string) error {
	tag, err := r.db.Exec(ctx, `UPDATE doctors SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, imageURL)
	if err != nil {
		return fmt.Errorf("doctors: update image failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
