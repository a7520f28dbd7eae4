package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-manager/internal/domain/auth"
	"pet-manager/internal/domain/pets"
	"pet-manager/internal/domain/users"
)

func seedUser(t *testing.T, s *Store, id, email string) users.User {
	t.Helper()
	u := users.User{ID: id, Name: id, Email: email, PasswordHash: "h", CreatedAt: time.Now()}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestUsers_EmailIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u-1", "Ana@Example.com")

	got, err := s.Users().GetByEmail(ctx, "ana@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	err = s.Users().Create(ctx, users.User{ID: "u-2", Email: "ANA@example.com"})
	assert.ErrorIs(t, err, users.ErrEmailTaken)

	b := seedUser(t, s, "u-3", "beto@example.com")
	b.Email = "ana@example.com"
	assert.ErrorIs(t, s.Users().Update(ctx, b), users.ErrEmailTaken)
}

func TestUsers_DeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u-1", "a@example.com")
	seedUser(t, s, "u-2", "b@example.com")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Pets().Create(ctx, pets.Pet{ID: "p-1", OwnerUserID: "u-1", Name: "Fido", Species: "Dog", CreatedAt: base}))
	require.NoError(t, s.Pets().Create(ctx, pets.Pet{ID: "p-2", OwnerUserID: "u-2", Name: "Michi", Species: "Cat", CreatedAt: base}))
	require.NoError(t, s.Tokens().Create(ctx, auth.AccessToken{ID: "t-1", UserID: "u-1"}))
	require.NoError(t, s.Tokens().Create(ctx, auth.AccessToken{ID: "t-2", UserID: "u-2"}))

	require.NoError(t, s.Users().Delete(ctx, "u-1"))

	_, err := s.Users().GetByID(ctx, "u-1")
	assert.ErrorIs(t, err, users.ErrNotFound)
	_, err = s.Pets().GetByID(ctx, "p-1")
	assert.ErrorIs(t, err, pets.ErrNotFound)
	_, err = s.Tokens().GetByID(ctx, "t-1")
	assert.ErrorIs(t, err, auth.ErrTokenNotFound)

	// Lo del otro usuario queda intacto.
	_, err = s.Pets().GetByID(ctx, "p-2")
	assert.NoError(t, err)
	_, err = s.Tokens().GetByID(ctx, "t-2")
	assert.NoError(t, err)
}

func TestUsers_ChangePasswordRevokesAllTokens(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u-1", "a@example.com")
	seedUser(t, s, "u-2", "b@example.com")

	for _, id := range []string{"t-1", "t-2"} {
		require.NoError(t, s.Tokens().Create(ctx, auth.AccessToken{ID: id, UserID: "u-1"}))
	}
	require.NoError(t, s.Tokens().Create(ctx, auth.AccessToken{ID: "t-3", UserID: "u-2"}))

	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Users().ChangePassword(ctx, "u-1", "new-hash", at))

	u, err := s.Users().GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", u.PasswordHash)
	assert.Equal(t, at, u.UpdatedAt)

	for _, id := range []string{"t-1", "t-2"} {
		_, err := s.Tokens().GetByID(ctx, id)
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	}
	_, err = s.Tokens().GetByID(ctx, "t-3")
	assert.NoError(t, err)
}

func TestPets_ListPageAndOwnerImmutable(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u-1", "a@example.com")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"p-c", "p-a", "p-b"} {
		require.NoError(t, s.Pets().Create(ctx, pets.Pet{
			ID: id, OwnerUserID: "u-1", Name: id, Species: "Dog",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, total, err := s.Pets().ListPage(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "p-a", page[0].ID)
	assert.Equal(t, "p-b", page[1].ID)

	page, _, err = s.Pets().ListPage(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	p, _ := s.Pets().GetByID(ctx, "p-a")
	p.OwnerUserID = "someone-else"
	p.Name = "Renamed"
	require.NoError(t, s.Pets().Update(ctx, p))

	got, _ := s.Pets().GetByID(ctx, "p-a")
	assert.Equal(t, "u-1", got.OwnerUserID)
	assert.Equal(t, "Renamed", got.Name)
}

func TestTokens_Touch(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedUser(t, s, "u-1", "a@example.com")
	require.NoError(t, s.Tokens().Create(ctx, auth.AccessToken{ID: "t-1", UserID: "u-1"}))

	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Tokens().Touch(ctx, "t-1", at))

	tok, err := s.Tokens().GetByID(ctx, "t-1")
	require.NoError(t, err)
	require.NotNil(t, tok.LastUsedAt)
	assert.Equal(t, at, *tok.LastUsedAt)

	assert.ErrorIs(t, s.Tokens().Touch(ctx, "missing", at), auth.ErrTokenNotFound)
}
