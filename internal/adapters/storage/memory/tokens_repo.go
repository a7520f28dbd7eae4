package memory

import (
	"context"
	"errors"
	"time"

	"pet-manager/internal/domain/auth"
)

type tokenRepo struct {
	*Store
}

func (r *tokenRepo) Create(ctx context.Context, t auth.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[t.UserID]; !ok {
		return errors.New("token owner does not exist")
	}
	r.tokens[t.ID] = t
	return nil
}

func (r *tokenRepo) GetByID(ctx context.Context, id string) (auth.AccessToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[id]
	if !ok {
		return auth.AccessToken{}, auth.ErrTokenNotFound
	}
	return t, nil
}

func (r *tokenRepo) Touch(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[id]
	if !ok {
		return auth.ErrTokenNotFound
	}
	t.LastUsedAt = &at
	r.tokens[id] = t
	return nil
}

func (r *tokenRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[id]; !ok {
		return auth.ErrTokenNotFound
	}
	delete(r.tokens, id)
	return nil
}
