// Package cats es el proxy hacia TheCatAPI: traduce la paginación y normaliza las fallas.
package cats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// ErrUpstream agrupa cualquier falla del upstream (transporte, status, JSON).
var ErrUpstream = errors.New("cat api upstream failure")

// Upstream es el cliente de la API externa. page es zero-indexed.
// Los registros se devuelven tal cual los entrega la API.
type Upstream interface {
	Breeds(ctx context.Context, limit, page int) ([]json.RawMessage, error)
	RandomImage(ctx context.Context) ([]json.RawMessage, error)
}

type Service struct {
	upstream Upstream
}

func NewService(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// ListBreeds recibe page one-indexed; limit y page se acotan a >= 1 antes de traducir.
func (s *Service) ListBreeds(ctx context.Context, limit, page int) ([]json.RawMessage, error) {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}

	out, err := s.upstream.Breeds(ctx, limit, page-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

func (s *Service) RandomImage(ctx context.Context) ([]json.RawMessage, error) {
	out, err := s.upstream.RandomImage(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}
