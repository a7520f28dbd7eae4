package memory

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-manager/internal/domain/users"
)

type userRepo struct {
	*Store
}

// emailTaken asume el lock tomado.
func (r *userRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.users[u.ID]; exists {
		return errors.New("user already exists")
	}
	if r.emailTaken(u.Email, "") {
		return users.ErrEmailTaken
	}
	r.users[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[u.ID]
	if !ok {
		return users.ErrNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return users.ErrEmailTaken
	}
	// El hash solo cambia por ChangePassword.
	u.PasswordHash = current.PasswordHash
	r.users[u.ID] = u
	return nil
}

// ChangePassword guarda el hash y borra todos los tokens del usuario bajo el mismo lock.
func (r *userRepo) ChangePassword(ctx context.Context, userID, passwordHash string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return users.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = at
	r.users[userID] = u

	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

// Delete elimina mascotas, tokens y usuario bajo el mismo lock.
func (r *userRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return users.ErrNotFound
	}
	for id, p := range r.pets {
		if p.OwnerUserID == userID {
			delete(r.pets, id)
		}
	}
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	delete(r.users, userID)
	return nil
}
