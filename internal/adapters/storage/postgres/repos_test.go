package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-manager/internal/domain/auth"
	"pet-manager/internal/domain/pets"
	"pet-manager/internal/domain/users"
)

// setupTestDB requiere TEST_DB_DSN apuntando a una base descartable.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	_, err = db.ExecContext(ctx, `TRUNCATE personal_access_tokens, pets, users`)
	require.NoError(t, err)
	return db
}

func newUser(email string) users.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return users.User{
		ID:           uuid.NewString(),
		Name:         "Test",
		Email:        email,
		PasswordHash: "hash",
		Birthdate:    time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsersRepo_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUsersRepo(db)
	ctx := context.Background()

	u := newUser("Ana@Example.com")
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "ana@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, 1990, got.Birthdate.Year())

	dup := newUser("ANA@example.com")
	assert.ErrorIs(t, repo.Create(ctx, dup), users.ErrEmailTaken)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestUsersRepo_DeleteAndPasswordCascade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	usersRepo, petsRepo, tokensRepo := NewUsersRepo(db), NewPetsRepo(db), NewTokensRepo(db)

	u := newUser("owner@example.com")
	require.NoError(t, usersRepo.Create(ctx, u))

	age := 3
	p := pets.Pet{ID: uuid.NewString(), OwnerUserID: u.ID, Name: "Fido", Species: "Dog", Age: &age, CreatedAt: u.CreatedAt, UpdatedAt: u.CreatedAt}
	require.NoError(t, petsRepo.Create(ctx, p))

	for i := 0; i < 2; i++ {
		require.NoError(t, tokensRepo.Create(ctx, auth.AccessToken{
			ID: uuid.NewString(), UserID: u.ID, Name: "auth_token",
			TokenHash: "0000000000000000000000000000000000000000000000000000000000000000",
			CreatedAt: u.CreatedAt,
		}))
	}

	require.NoError(t, usersRepo.ChangePassword(ctx, u.ID, "new-hash", time.Now()))
	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM personal_access_tokens WHERE user_id = $1`, u.ID).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, usersRepo.Delete(ctx, u.ID))
	_, err := petsRepo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, pets.ErrNotFound)
	assert.ErrorIs(t, usersRepo.Delete(ctx, u.ID), users.ErrNotFound)
}

func TestPetsRepo_UpdateAndPage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	usersRepo, petsRepo := NewUsersRepo(db), NewPetsRepo(db)

	u := newUser("pets@example.com")
	require.NoError(t, usersRepo.Create(ctx, u))

	base := u.CreatedAt
	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		p := pets.Pet{ID: uuid.NewString(), OwnerUserID: u.ID, Name: "P", Species: "Cat",
			CreatedAt: base.Add(time.Duration(i) * time.Second), UpdatedAt: base}
		require.NoError(t, petsRepo.Create(ctx, p))
		ids = append(ids, p.ID)
	}

	page, total, err := petsRepo.ListPage(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)

	p, err := petsRepo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	breed := "Siamés"
	p.Breed = &breed
	p.Age = nil
	require.NoError(t, petsRepo.Update(ctx, p))

	got, err := petsRepo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, got.Breed)
	assert.Equal(t, "Siamés", *got.Breed)
	assert.Nil(t, got.Age)

	mine, err := petsRepo.ListByOwner(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	require.NoError(t, petsRepo.Delete(ctx, ids[2]))
	assert.ErrorIs(t, petsRepo.Delete(ctx, ids[2]), pets.ErrNotFound)
}

func TestTokensRepo_TouchAndDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	usersRepo, tokensRepo := NewUsersRepo(db), NewTokensRepo(db)

	u := newUser("tokens@example.com")
	require.NoError(t, usersRepo.Create(ctx, u))

	tok := auth.AccessToken{ID: uuid.NewString(), UserID: u.ID, Name: "auth_token",
		TokenHash: "1111111111111111111111111111111111111111111111111111111111111111", CreatedAt: u.CreatedAt}
	require.NoError(t, tokensRepo.Create(ctx, tok))

	require.NoError(t, tokensRepo.Touch(ctx, tok.ID, time.Now()))
	got, err := tokensRepo.GetByID(ctx, tok.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastUsedAt)

	require.NoError(t, tokensRepo.Delete(ctx, tok.ID))
	_, err = tokensRepo.GetByID(ctx, tok.ID)
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)
}
