package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/session"
)

// MemoryStore holds sessions in-process, for single-instance runs and
// tests where Redis is not configured.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*session.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*session.State)}
}

func (m *MemoryStore) Save(_ context.Context, state *session.State) error {
	if state == nil || state.SessionID == "" {
		return errors.New("session save: missing session id")
	}
	state.UpdatedAt = time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.SessionID] = state
	return nil
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*session.State, error) {
	if sessionID == "" {
		return nil, errors.New("session load: missing session id")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[sessionID]
	if !ok {
		return nil, fmt.Errorf("session load %q: %w", sessionID, ErrNotFound)
	}
	return state, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session delete: missing session id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, sessionID)
	return nil
}

var _ ports.SessionStore = (*MemoryStore)(nil)
