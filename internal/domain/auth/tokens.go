package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-manager/internal/domain/users"
	portsauth "pet-manager/internal/ports/auth"
)

// ErrTokenNotFound lo devuelve el TokenRepository cuando el id no existe.
var ErrTokenNotFound = errors.New("access token not found")

// AccessToken es un bearer token persistido. Solo se guarda el SHA-256 del secreto.
type AccessToken struct {
	ID         string
	UserID     string
	Name       string
	TokenHash  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// TokenRepository persiste access tokens. La revocación masiva (cambio de contraseña, baja)
// la hace users.Repository dentro de su propia transacción.
type TokenRepository interface {
	Create(ctx context.Context, t AccessToken) error
	GetByID(ctx context.Context, id string) (AccessToken, error)
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

// TokenService emite y resuelve tokens "<id>|<secreto>". Implementa portsauth.TokenResolver.
type TokenService struct {
	tokens TokenRepository
	users  UserGetter
	now    func() time.Time
}

var _ portsauth.TokenResolver = (*TokenService)(nil)

func NewTokenService(tokens TokenRepository, users UserGetter) *TokenService {
	return &TokenService{tokens: tokens, users: users, now: time.Now}
}

// Issue crea un token para userID y devuelve el texto plano (única vez que existe).
func (s *TokenService) Issue(ctx context.Context, userID, name string) (string, AccessToken, error) {
	secret, err := randomToken()
	if err != nil {
		return "", AccessToken{}, err
	}

	t := AccessToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		TokenHash: hashSecret(secret),
		CreatedAt: s.now(),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return "", AccessToken{}, fmt.Errorf("store token: %w", err)
	}
	return t.ID + "|" + secret, t, nil
}

// Resolve valida el token y que su dueño siga existiendo. Cualquier falla de identidad
// se reporta como portsauth.ErrUnauthenticated.
func (s *TokenService) Resolve(ctx context.Context, plain string) (portsauth.Claims, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(plain), "|")
	if !ok || id == "" || secret == "" {
		return portsauth.Claims{}, portsauth.ErrUnauthenticated
	}

	t, err := s.tokens.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return portsauth.Claims{}, portsauth.ErrUnauthenticated
		}
		return portsauth.Claims{}, fmt.Errorf("load token: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(t.TokenHash), []byte(hashSecret(secret))) != 1 {
		return portsauth.Claims{}, portsauth.ErrUnauthenticated
	}

	u, err := s.users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return portsauth.Claims{}, portsauth.ErrUnauthenticated
		}
		return portsauth.Claims{}, fmt.Errorf("load token owner: %w", err)
	}

	if err := s.tokens.Touch(ctx, t.ID, s.now()); err != nil && !errors.Is(err, ErrTokenNotFound) {
		return portsauth.Claims{}, fmt.Errorf("touch token: %w", err)
	}

	return portsauth.Claims{UserID: u.ID, Email: u.Email, TokenID: t.ID}, nil
}

// Revoke borra un token puntual (logout). Revocar uno inexistente no es error.
func (s *TokenService) Revoke(ctx context.Context, tokenID string) error {
	if err := s.tokens.Delete(ctx, tokenID); err != nil && !errors.Is(err, ErrTokenNotFound) {
		return err
	}
	return nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
