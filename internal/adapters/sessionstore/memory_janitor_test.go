package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-manager/internal/domain/auth"
)

func TestMemory_JanitorRemovesExpired(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now()
	require.NoError(t, m.Save(ctx, auth.Session{ID: "old", ExpiresAt: now.Add(-time.Second)}))
	require.NoError(t, m.Save(ctx, auth.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))

	m.StartJanitor(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		_, old := m.byID["old"]
		_, live := m.byID["live"]
		return !old && live
	}, time.Second, 10*time.Millisecond)
}
