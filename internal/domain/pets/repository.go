package pets

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("pet not found")

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// ListByOwner devuelve las mascotas del dueño ordenadas por created_at asc.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
	// ListPage devuelve una página del listado global (created_at asc) y el total.
	ListPage(ctx context.Context, limit, offset int) ([]Pet, int, error)
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
}
