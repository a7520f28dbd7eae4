package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-manager/internal/platform/logger"
)

type testSessionStore struct {
	byID map[string]Session
}

func newTestSessionStore() *testSessionStore {
	return &testSessionStore{byID: map[string]Session{}}
}

func (s *testSessionStore) Save(ctx context.Context, sess Session) error {
	s.byID[sess.ID] = sess
	return nil
}

func (s *testSessionStore) Get(ctx context.Context, id string) (Session, error) {
	sess, ok := s.byID[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (s *testSessionStore) Delete(ctx context.Context, id string) error {
	delete(s.byID, id)
	return nil
}

func (s *testSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	for id, sess := range s.byID {
		if sess.UserID == userID {
			delete(s.byID, id)
		}
	}
	return nil
}

func newSessionFixture() (*SessionManager, *testSessionStore, *time.Time) {
	store := newTestSessionStore()
	m := NewSessionManager(store, SessionConfig{Secret: []byte("test-secret"), TTL: time.Hour})
	clock := time.Now().UTC().Truncate(time.Second)
	m.now = func() time.Time { return clock }
	return m, store, &clock
}

func TestSessionManager_RoundTrip(t *testing.T) {
	m, _, _ := newSessionFixture()
	ctx := context.Background()

	s, err := m.Start(ctx)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.NotEmpty(t, s.CSRFToken)

	c, err := m.Cookie(s)
	require.NoError(t, err)
	assert.True(t, c.HttpOnly)
	assert.Zero(t, c.MaxAge)

	loaded, err := m.Load(ctx, c.Value)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
}

func TestSessionManager_LoadRejects(t *testing.T) {
	m, store, clock := newSessionFixture()
	ctx := context.Background()

	s, err := m.Start(ctx)
	require.NoError(t, err)
	c, err := m.Cookie(s)
	require.NoError(t, err)

	other := NewSessionManager(store, SessionConfig{Secret: []byte("other-secret")})
	forged, err := other.Cookie(s)
	require.NoError(t, err)

	_, err = m.Load(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = m.Load(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = m.Load(ctx, forged.Value)
	assert.ErrorIs(t, err, ErrInvalidSession)

	*clock = clock.Add(2 * time.Hour)
	_, err = m.Load(ctx, c.Value)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionManager_RegenerateAndInvalidate(t *testing.T) {
	m, store, _ := newSessionFixture()
	ctx := context.Background()

	guest, err := m.Start(ctx)
	require.NoError(t, err)

	authed, err := m.Regenerate(ctx, guest, "u-1", true)
	require.NoError(t, err)
	assert.NotEqual(t, guest.ID, authed.ID)
	assert.Equal(t, guest.CSRFToken, authed.CSRFToken)
	assert.Equal(t, "u-1", authed.UserID)
	assert.Equal(t, m.now().Add(30*24*time.Hour), authed.ExpiresAt)
	_, ok := store.byID[guest.ID]
	assert.False(t, ok, "old session id must be gone")

	c, err := m.Cookie(authed)
	require.NoError(t, err)
	assert.Positive(t, c.MaxAge)

	next, err := m.Invalidate(ctx, authed)
	require.NoError(t, err)
	assert.False(t, next.Authenticated())
	assert.NotEqual(t, authed.CSRFToken, next.CSRFToken)
	_, ok = store.byID[authed.ID]
	assert.False(t, ok)
}

func TestSessionManager_RevokeAll(t *testing.T) {
	m, store, _ := newSessionFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		s, err := m.Start(ctx)
		require.NoError(t, err)
		_, err = m.Regenerate(ctx, s, "u-1", false)
		require.NoError(t, err)
	}
	keep, err := m.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, m.RevokeAll(ctx, "u-1"))
	assert.Len(t, store.byID, 1)
	assert.Contains(t, store.byID, keep.ID)
}

func TestSessionMiddleware_CSRFAndGuard(t *testing.T) {
	m, _, _ := newSessionFixture()

	h := LoadSession(m, logger.Discard())(VerifyCSRF(RequireSessionUser(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)))

	// Sin cookie: se emite una sesión de invitado y el POST falla por CSRF.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/web/logout", nil))
	assert.Equal(t, StatusCSRFMismatch, rec.Code)
	require.NotEmpty(t, rec.Result().Cookies())

	ctx := context.Background()
	guest, err := m.Start(ctx)
	require.NoError(t, err)
	gc, err := m.Cookie(guest)
	require.NoError(t, err)

	// Invitado con CSRF correcto: 401.
	req := httptest.NewRequest(http.MethodPost, "/web/logout", nil)
	req.AddCookie(gc)
	req.Header.Set(HeaderCSRF, guest.CSRFToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	authed, err := m.Regenerate(ctx, guest, "u-1", false)
	require.NoError(t, err)
	ac, err := m.Cookie(authed)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/web/logout", nil)
	req.AddCookie(ac)
	req.Header.Set(HeaderCSRF, "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, StatusCSRFMismatch, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/web/logout", nil)
	req.AddCookie(ac)
	req.Header.Set(HeaderCSRF, authed.CSRFToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
