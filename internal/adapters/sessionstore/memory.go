// Package sessionstore implementa auth.SessionStore en memoria y en Redis.
package sessionstore

import (
	"context"
	"sync"
	"time"

	"pet-manager/internal/domain/auth"
)

type Memory struct {
	mu   sync.RWMutex
	byID map[string]auth.Session
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]auth.Session), now: time.Now}
}

func (m *Memory) Save(_ context.Context, s auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[s.ID] = s
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (auth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	if !ok || !m.now().Before(s.ExpiresAt) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return s, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byID, id)
	return nil
}

func (m *Memory) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.byID {
		if s.UserID == userID {
			delete(m.byID, id)
		}
	}
	return nil
}

// Cleanup borra sesiones vencidas.
func (m *Memory) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, s := range m.byID {
		if !now.Before(s.ExpiresAt) {
			delete(m.byID, id)
		}
	}
}

// StartJanitor corre Cleanup cada every hasta que ctx se cancela.
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
