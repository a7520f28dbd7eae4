// Package memory implementa los repositorios en memoria (modo dev y tests).
// Users, pets y tokens comparten un único mutex para que las cascadas sean atómicas.
package memory

import (
	"sync"

	"pet-manager/internal/domain/auth"
	"pet-manager/internal/domain/pets"
	"pet-manager/internal/domain/users"
)

type Store struct {
	mu     sync.RWMutex
	users  map[string]users.User
	pets   map[string]pets.Pet
	tokens map[string]auth.AccessToken
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]users.User),
		pets:   make(map[string]pets.Pet),
		tokens: make(map[string]auth.AccessToken),
	}
}

func (s *Store) Users() users.Repository { return &userRepo{s} }

func (s *Store) Pets() pets.Repository { return &petRepo{s} }

func (s *Store) Tokens() auth.TokenRepository { return &tokenRepo{s} }
