package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated: token ausente, inválido, revocado o cuyo dueño ya no existe.
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenResolver resuelve un bearer token en claims.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (Claims, error)
}
