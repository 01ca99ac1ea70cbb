package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxDB is the slice of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type pgxDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores mirrored users in the relational database.
type PostgresRepository struct {
	db pgxDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("users: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgxDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or updates a user keyed by external_id.
func (r *PostgresRepository) Upsert(ctx context.Context, req *UpsertUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (id, external_id, email, name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, role = EXCLUDED.role,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	u := User{
		ExternalID: req.ExternalID,
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
	}
	if err := r.db.QueryRow(ctx, query,
		uuid.New().String(), req.ExternalID, req.Email, req.Name, req.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("users: upsert failed: %w", err)
	}
	return &u, nil
}

// GetByExternalID fetches a user by provider id.
func (r *PostgresRepository) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	query := `
		SELECT id, external_id, email, name, role, created_at, updated_at
		FROM users
		WHERE external_id = $1
	`
	var u User
	if err := r.db.QueryRow(ctx, query, externalID).Scan(
		&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: select failed: %w", err)
	}
	return &u, nil
}

// Delete removes the mirrored user.
func (r *PostgresRepository) Delete(ctx context.Context, externalID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM users WHERE external_id = $1`, externalID); err != nil {
		return fmt.Errorf("users: delete failed: %w", err)
	}
	return nil
}
