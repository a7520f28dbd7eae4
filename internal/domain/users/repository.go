package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Repository es el Credential Store.
//
// Email es único bajo comparación case-insensitive; GetByEmail compara igual.
// ChangePassword y Delete son atómicos: ChangePassword revoca todos los access tokens del
// usuario en la misma unidad, Delete elimina mascotas y tokens junto con el usuario.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, u User) error
	ChangePassword(ctx context.Context, userID, passwordHash string, at time.Time) error
	Delete(ctx context.Context, userID string) error
}
