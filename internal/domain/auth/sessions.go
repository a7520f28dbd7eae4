package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrSessionNotFound lo devuelve el SessionStore para ids inexistentes o vencidos.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSession: cookie ausente, firma inválida, vencida o sin registro en el store.
var ErrInvalidSession = errors.New("invalid session")

// Session es el estado server-side del flujo web. UserID vacío = invitado.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	CSRFToken string    `json:"csrf_token"`
	Remember  bool      `json:"remember,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Authenticated() bool { return s.UserID != "" }

// SessionStore persiste sesiones hasta ExpiresAt.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type SessionConfig struct {
	CookieName  string
	Secret      []byte
	TTL         time.Duration
	RememberTTL time.Duration
	Secure      bool
}

// SessionManager firma la cookie como JWT HS256 cuyo jti es el id de sesión.
// Para que una cookie sea válida hacen falta la firma y el registro en el store.
type SessionManager struct {
	store SessionStore
	cfg   SessionConfig
	now   func() time.Time
}

func NewSessionManager(store SessionStore, cfg SessionConfig) *SessionManager {
	if cfg.CookieName == "" {
		cfg.CookieName = "pet_manager_session"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = 30 * 24 * time.Hour
	}
	return &SessionManager{store: store, cfg: cfg, now: time.Now}
}

func (m *SessionManager) CookieName() string { return m.cfg.CookieName }

// Load valida la cookie y devuelve la sesión guardada.
func (m *SessionManager) Load(ctx context.Context, cookieValue string) (Session, error) {
	if cookieValue == "" {
		return Session{}, ErrInvalidSession
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(cookieValue, claims, func(*jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || claims.ID == "" {
		return Session{}, ErrInvalidSession
	}

	s, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Session{}, ErrInvalidSession
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if !m.now().Before(s.ExpiresAt) {
		return Session{}, ErrInvalidSession
	}
	return s, nil
}

// Start crea una sesión de invitado con su token CSRF.
func (m *SessionManager) Start(ctx context.Context) (Session, error) {
	csrf, err := randomToken()
	if err != nil {
		return Session{}, err
	}
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		CSRFToken: csrf,
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.TTL),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Regenerate asocia la sesión a userID con un id nuevo (el anterior se borra) y conserva el CSRF.
func (m *SessionManager) Regenerate(ctx context.Context, s Session, userID string, remember bool) (Session, error) {
	now := m.now()
	ttl := m.cfg.TTL
	if remember {
		ttl = m.cfg.RememberTTL
	}

	next := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CSRFToken: s.CSRFToken,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if next.CSRFToken == "" {
		csrf, err := randomToken()
		if err != nil {
			return Session{}, err
		}
		next.CSRFToken = csrf
	}

	if err := m.store.Save(ctx, next); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	if s.ID != "" {
		if err := m.store.Delete(ctx, s.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return Session{}, fmt.Errorf("delete old session: %w", err)
		}
	}
	return next, nil
}

// Invalidate borra la sesión y devuelve una de invitado nueva con otro token CSRF.
func (m *SessionManager) Invalidate(ctx context.Context, s Session) (Session, error) {
	if s.ID != "" {
		if err := m.store.Delete(ctx, s.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return Session{}, fmt.Errorf("delete session: %w", err)
		}
	}
	return m.Start(ctx)
}

// RevokeAll cierra todas las sesiones de userID. Satisface users.SessionRevoker.
func (m *SessionManager) RevokeAll(ctx context.Context, userID string) error {
	return m.store.DeleteByUser(ctx, userID)
}

// Cookie firma la sesión. Las sesiones "remember" persisten en el navegador; el resto
// usa cookie de sesión del navegador, con el vencimiento en el propio JWT.
func (m *SessionManager) Cookie(s Session) (*http.Cookie, error) {
	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   s.UserID,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	c := &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.Remember {
		c.Expires = s.ExpiresAt
		c.MaxAge = int(s.ExpiresAt.Sub(m.now()).Seconds())
	}
	return c, nil
}

// randomToken: 30 bytes aleatorios en base64url (40 caracteres).
func randomToken() (string, error) {
	b := make([]byte, 30)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
