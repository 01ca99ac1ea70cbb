package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryUpsertCreatesAndUpdates(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Upsert(ctx, &UpsertUserRequest{
		ExternalID: "ext-1",
		Email:      "pat@example.com",
		Name:       "Pat Perera",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, RoleUser, created.Role)

	updated, err := repo.Upsert(ctx, &UpsertUserRequest{
		ExternalID: "ext-1",
		Email:      "new@example.com",
		Name:       "Pat Perera",
		Role:       RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "upsert must keep the row id stable")
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, RoleAdmin, updated.Role)
}

func TestInMemoryUpsertValidation(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.Upsert(context.Background(), &UpsertUserRequest{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrExternalIDRequired)
}

func TestInMemoryUpsertNormalizesUnknownRole(t *testing.T) {
	repo := NewInMemoryRepository()

	u, err := repo.Upsert(context.Background(), &UpsertUserRequest{
		ExternalID: "ext-1",
		Role:       "SUPERUSER",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, u.Role)
}

func TestInMemoryDelete(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &UpsertUserRequest{ExternalID: "ext-1"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "ext-1"))
	_, err = repo.GetByExternalID(ctx, "ext-1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Deleting an unknown id is not an error.
	assert.NoError(t, repo.Delete(ctx, "ghost"))
}
