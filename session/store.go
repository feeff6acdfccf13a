package session

import (
	"context"
	"sync"

	"github.com/surplusmarket/client-go/logging"
)

// Store holds the process-wide session and mirrors every change to its Vault.
// It is the exclusive writer of session state: all mutations go through
// Establish, UpdateUser and Clear. Readers always observe a consistent
// snapshot; there is no intermediate state where a credential exists without
// an identity.
//
// Vault write failures are best-effort: the in-memory state stays
// authoritative for the current process lifetime and the failure is logged.
type Store struct {
	mu      sync.RWMutex
	current Session

	vault  Vault
	logger logging.Logger

	subMu       sync.Mutex
	subscribers []func(Session)
}

// NewStore creates a session store mirrored to the given vault.
func NewStore(vault Vault, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Store{vault: vault, logger: logger}
}

// Restore loads the durable session copy, discarding credentials that are
// already expired. An absent durable key leaves the store unauthenticated.
func (s *Store) Restore(ctx context.Context) error {
	stored, err := s.vault.Load(ctx)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}
	if TokenExpired(stored.Token) {
		s.logger.Info("stored credential expired, discarding session", map[string]interface{}{
			"operation": "session_restore",
			"user_id":   stored.User.ID,
		})
		if err := s.vault.Erase(ctx); err != nil {
			s.logger.Warn("failed to erase expired session", map[string]interface{}{
				"operation": "session_restore",
				"error":     err.Error(),
			})
		}
		return nil
	}

	s.mu.Lock()
	s.current = *stored
	s.mu.Unlock()

	s.notify()
	return nil
}

// Establish overwrites the session with a freshly authenticated identity and
// credential, then mirrors the new state to the vault.
func (s *Store) Establish(ctx context.Context, user User, token string) {
	s.mu.Lock()
	s.current = Session{User: user, Token: token}
	snapshot := s.current
	s.mu.Unlock()

	if err := s.vault.Save(ctx, &snapshot); err != nil {
		s.logger.Warn("failed to persist session", map[string]interface{}{
			"operation": "session_establish",
			"user_id":   user.ID,
			"error":     err.Error(),
		})
	}
	s.notify()
}

// UpdateUser merges the given fields into the identity without touching the
// credential. Calling it on an unauthenticated store is a no-op.
func (s *Store) UpdateUser(ctx context.Context, patch UserPatch) {
	s.mu.Lock()
	if !s.current.Authenticated() {
		s.mu.Unlock()
		return
	}
	if patch.Email != nil {
		s.current.User.Email = *patch.Email
	}
	if patch.FirstName != nil {
		s.current.User.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		s.current.User.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		s.current.User.Phone = *patch.Phone
	}
	snapshot := s.current
	s.mu.Unlock()

	if err := s.vault.Save(ctx, &snapshot); err != nil {
		s.logger.Warn("failed to persist session update", map[string]interface{}{
			"operation": "session_update",
			"user_id":   snapshot.User.ID,
			"error":     err.Error(),
		})
	}
	s.notify()
}

// ReplaceUser overwrites the whole identity record, keeping the credential.
// Used when the server returns the canonical profile after an update.
func (s *Store) ReplaceUser(ctx context.Context, user User) {
	s.mu.Lock()
	if !s.current.Authenticated() {
		s.mu.Unlock()
		return
	}
	s.current.User = user
	snapshot := s.current
	s.mu.Unlock()

	if err := s.vault.Save(ctx, &snapshot); err != nil {
		s.logger.Warn("failed to persist session update", map[string]interface{}{
			"operation": "session_update",
			"user_id":   user.ID,
			"error":     err.Error(),
		})
	}
	s.notify()
}

// Clear erases the session and its durable copy. Safe to call repeatedly.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()

	if err := s.vault.Erase(ctx); err != nil {
		s.logger.Warn("failed to erase persisted session", map[string]interface{}{
			"operation": "session_clear",
			"error":     err.Error(),
		})
	}
	s.notify()
}

// Snapshot returns a consistent copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Authenticated reports whether a complete session is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Authenticated()
}

// Token returns the bearer credential, if any. Implements the credential
// source consumed by the request pipeline.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token, s.current.Token != ""
}

// Subscribe registers an observer invoked with a snapshot after every
// mutation. Observers run on the mutating goroutine and must not block.
func (s *Store) Subscribe(fn func(Session)) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *Store) notify() {
	snapshot := s.Snapshot()
	s.subMu.Lock()
	subs := make([]func(Session), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
