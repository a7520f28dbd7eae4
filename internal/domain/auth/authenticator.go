package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-manager/internal/domain/users"
	"pet-manager/internal/platform/logger"
	"pet-manager/internal/platform/password"
	"pet-manager/internal/platform/validation"
)

// ErrInvalidCredentials no distingue email inexistente de contraseña incorrecta.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MsgFailed es el mensaje genérico de credenciales inválidas (errors.email).
const MsgFailed = "Estas credenciales no coinciden con nuestros registros."

// CredentialStore es lo único que el autenticador necesita del repositorio de usuarios.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (users.User, error)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`

	// IP la completa el handler; nunca viene del body.
	IP string `json:"-"`
}

var loginRules = validation.Rules{
	Messages: map[string]string{
		"email.required":    "El correo electrónico es obligatorio.",
		"email.email":       "El correo electrónico no tiene la estructura adecuada.",
		"email.type":        "El correo electrónico debe ser una cadena de texto.",
		"password.required": "La contraseña no puede estar vacia.",
		"password.type":     "La contraseña debe ser una cadena de texto.",
	},
	Attributes: map[string]string{
		"email":    "correo electrónico",
		"password": "contraseña",
	},
}

type AuthenticatorConfig struct {
	MaxAttempts int
	Decay       time.Duration
}

// Authenticator valida credenciales consultando el limiter antes y después de cada intento.
type Authenticator struct {
	store    CredentialStore
	hasher   password.Hasher
	limiter  Limiter
	cfg      AuthenticatorConfig
	validate *validation.Validator
	log      logger.Logger
}

func NewAuthenticator(store CredentialStore, hasher password.Hasher, limiter Limiter, cfg AuthenticatorConfig, log logger.Logger) *Authenticator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Decay <= 0 {
		cfg.Decay = time.Minute
	}
	return &Authenticator{
		store:    store,
		hasher:   hasher,
		limiter:  limiter,
		cfg:      cfg,
		validate: validation.New(),
		log:      log,
	}
}

// Attempt:
//  1. payload inválido => validation.Errors
//  2. bucket lleno => *ThrottledError (sin tocar el store ni sumar intento)
//  3. usuario inexistente o hash distinto => Hit + ErrInvalidCredentials
//  4. ok => Clear + usuario
func (a *Authenticator) Attempt(ctx context.Context, c Credentials) (users.User, error) {
	c.Email = strings.TrimSpace(c.Email)
	if err := a.validate.Struct(c, loginRules).Err(); err != nil {
		return users.User{}, err
	}

	key := ThrottleKey(c.Email, c.IP)

	blocked, err := a.limiter.TooManyAttempts(ctx, key, a.cfg.MaxAttempts)
	if err != nil {
		return users.User{}, fmt.Errorf("check limiter: %w", err)
	}
	if blocked {
		wait, err := a.limiter.AvailableIn(ctx, key)
		if err != nil {
			return users.User{}, fmt.Errorf("limiter available in: %w", err)
		}
		a.log.Debug("login throttled", map[string]any{"key": key, "seconds": wait.Seconds()})
		return users.User{}, newThrottledError(wait)
	}

	u, err := a.store.GetByEmail(ctx, c.Email)
	switch {
	case err == nil:
		if a.hasher.Compare(u.PasswordHash, c.Password) == nil {
			if err := a.limiter.Clear(ctx, key); err != nil {
				return users.User{}, fmt.Errorf("clear limiter: %w", err)
			}
			return u, nil
		}
	case !errors.Is(err, users.ErrNotFound):
		return users.User{}, fmt.Errorf("lookup credentials: %w", err)
	}

	attempts, err := a.limiter.Hit(ctx, key, a.cfg.Decay)
	if err != nil {
		return users.User{}, fmt.Errorf("hit limiter: %w", err)
	}
	a.log.Debug("login failed", map[string]any{"key": key, "attempts": attempts})
	return users.User{}, ErrInvalidCredentials
}
