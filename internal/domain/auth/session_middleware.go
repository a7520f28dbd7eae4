package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"pet-manager/internal/http/respond"
	"pet-manager/internal/platform/logger"
)

// HeaderCSRF es el header con el que el cliente devuelve el token CSRF de su sesión.
const HeaderCSRF = "X-CSRF-Token"

// StatusCSRFMismatch: "page expired", el status con que se rechaza un CSRF inválido.
const StatusCSRFMismatch = 419

const msgCSRFMismatch = "CSRF token mismatch."

type sessionCtxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	return s, ok
}

// LoadSession carga la sesión de la cookie o arranca una de invitado (y emite su cookie).
func LoadSession(m *SessionManager, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw string
			if c, err := r.Cookie(m.CookieName()); err == nil {
				raw = c.Value
			}

			s, err := m.Load(r.Context(), raw)
			if err != nil {
				if !errors.Is(err, ErrInvalidSession) {
					log.Error("load session failed", map[string]any{"error": err.Error()})
					respond.Internal(w)
					return
				}
				s, err = m.Start(r.Context())
				if err != nil {
					log.Error("start session failed", map[string]any{"error": err.Error()})
					respond.Internal(w)
					return
				}
				if err := setSessionCookie(w, m, s); err != nil {
					log.Error("session cookie failed", map[string]any{"error": err.Error()})
					respond.Internal(w)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// VerifyCSRF exige X-CSRF-Token == token de la sesión en métodos que modifican estado.
func VerifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		s, ok := SessionFrom(r.Context())
		got := r.Header.Get(HeaderCSRF)
		if !ok || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.CSRFToken)) != 1 {
			respond.Text(w, StatusCSRFMismatch, msgCSRFMismatch)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSessionUser corta con 401 si la sesión es de invitado.
func RequireSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFrom(r.Context())
		if !ok || !s.Authenticated() {
			respond.Unauthenticated(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setSessionCookie(w http.ResponseWriter, m *SessionManager, s Session) error {
	c, err := m.Cookie(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, c)
	return nil
}
