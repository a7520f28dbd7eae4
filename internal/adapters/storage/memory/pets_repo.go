package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-manager/internal/domain/pets"
)

type petRepo struct {
	*Store
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.pets[p.ID]; exists {
		return errors.New("pet already exists")
	}
	if _, ok := r.users[p.OwnerUserID]; !ok {
		return errors.New("pet owner does not exist")
	}
	r.pets[p.ID] = p
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.pets[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	// El dueño es inmutable.
	p.OwnerUserID = current.OwnerUserID
	p.CreatedAt = current.CreatedAt
	r.pets[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pets[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.pets {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *petRepo) ListPage(ctx context.Context, limit, offset int) ([]pets.Pet, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]pets.Pet, 0, len(r.pets))
	for _, p := range r.pets {
		all = append(all, p)
	}
	sortByCreation(all)

	total := len(all)
	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return []pets.Pet{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pets[id]; !ok {
		return pets.ErrNotFound
	}
	delete(r.pets, id)
	return nil
}

// Orden estable: created_at asc, id como desempate (igual que en Postgres).
func sortByCreation(ps []pets.Pet) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
}
