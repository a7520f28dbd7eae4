// Package ratelimit implementa el limiter de intentos de login (auth.Limiter).
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	attempts  int
	expiresAt time.Time
}

// Memory guarda los buckets en un map protegido por mutex. Sirve para una sola instancia.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]bucket
	now     func() time.Time
}

type MemoryOption func(*Memory)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		buckets: make(map[string]bucket),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// live devuelve el bucket si no venció. Asume el lock tomado.
func (m *Memory) live(key string) (bucket, bool) {
	b, ok := m.buckets[key]
	if !ok {
		return bucket{}, false
	}
	if !m.now().Before(b.expiresAt) {
		delete(m.buckets, key)
		return bucket{}, false
	}
	return b, true
}

func (m *Memory) TooManyAttempts(_ context.Context, key string, maxAttempts int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, _ := m.live(key)
	return b.attempts >= maxAttempts, nil
}

func (m *Memory) Hit(_ context.Context, key string, decay time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, _ := m.live(key)
	b.attempts++
	b.expiresAt = m.now().Add(decay)
	m.buckets[key] = b
	return b.attempts, nil
}

func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets, key)
	return nil
}

func (m *Memory) AvailableIn(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.live(key)
	if !ok {
		return 0, nil
	}
	return b.expiresAt.Sub(m.now()), nil
}

// Cleanup borra los buckets vencidos.
func (m *Memory) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, b := range m.buckets {
		if !now.Before(b.expiresAt) {
			delete(m.buckets, k)
		}
	}
}

// StartJanitor ejecuta Cleanup cada every hasta que ctx se cancela.
func (m *Memory) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}
