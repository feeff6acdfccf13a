package session

import (
	"context"
	"sync"
)

// Vault is the durable mirror of the session: one key holding the serialized
// session record. Load returns (nil, nil) when no session is stored.
type Vault interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Erase(ctx context.Context) error
}

// MemoryVault keeps the session in process memory. It satisfies Vault for
// tests and for ephemeral runs where durability is not wanted.
type MemoryVault struct {
	mu      sync.RWMutex
	stored  Session
	present bool
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

func (m *MemoryVault) Load(ctx context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return nil, nil
	}
	s := m.stored
	return &s, nil
}

func (m *MemoryVault) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = *s
	m.present = true
	return nil
}

func (m *MemoryVault) Erase(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = Session{}
	m.present = false
	return nil
}
