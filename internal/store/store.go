// Package store implements the session store: it owns the current signed-in
// identity, persists it across restarts, and provides sign-in-or-register
// and sign-out on top of the accounts service.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/avoronin/accountkeeper/internal/accounts"
	"github.com/avoronin/accountkeeper/internal/client/state"
	"github.com/avoronin/accountkeeper/internal/logging"
)

// currentSessionKey is the state-table key holding the serialized account
// of the current session.
const currentSessionKey = "current_session"

// Store tracks at most one current session. Construct one per process with
// New and call Initialize exactly once before use.
type Store struct {
	svc    *accounts.Service
	state  state.Repository
	logger logging.Logger

	mu      sync.Mutex
	current *accounts.Account
	loading bool
}

func New(svc *accounts.Service, st state.Repository, logger logging.Logger) *Store {
	return &Store{
		svc:     svc,
		state:   st,
		logger:  logger.With("module", "store"),
		loading: true,
	}
}

// Initialize restores persisted state and repairs invariants:
//
//   - every admin account in the table is demoted to user;
//   - the persisted current session, if present, is restored; if its bytes
//     fail to parse it is discarded and the store starts signed out;
//   - a restored session with an admin role is demoted and re-persisted.
//
// Loading reports true until Initialize returns.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	if _, err := s.svc.DemoteAdmins(ctx); err != nil {
		return fmt.Errorf("role repair error: %w", err)
	}

	raw, err := s.state.Get(ctx, currentSessionKey)
	if err != nil {
		return fmt.Errorf("session restore error: %w", err)
	}
	if raw == nil {
		return nil
	}

	var account accounts.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		// Corrupt persisted session: discard it and start signed out.
		s.logger.Warn(ctx, "discarding unreadable session state", "error", err.Error())
		return s.state.Delete(ctx, currentSessionKey)
	}

	if account.Role == accounts.RoleAdmin {
		account.Role = accounts.RoleUser
		if err := s.persistSession(ctx, &account); err != nil {
			return err
		}
	}

	s.current = &account
	s.logger.Info(ctx, "session restored", "username_key", account.Key())
	return nil
}

// SignInOrRegister authenticates the username/password pair, creating the
// account on first use, and makes the result the current session. On any
// error the current session is left unchanged.
func (s *Store) SignInOrRegister(ctx context.Context, username, password, avatarRef string) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.svc.SignInOrRegister(ctx, username, password, avatarRef)
	if err != nil {
		return nil, err
	}

	if err := s.persistSession(ctx, account); err != nil {
		return nil, err
	}

	s.current = account
	return account, nil
}

// SignOut clears the current session, in memory and in storage. Calling it
// with no active session is a no-op.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Delete(ctx, currentSessionKey); err != nil {
		return err
	}
	s.current = nil
	return nil
}

// CurrentAccount returns the account of the current session, or nil when
// signed out.
func (s *Store) CurrentAccount() *accounts.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Loading reports whether Initialize has finished. It starts true so that
// consumers can defer reads until startup completes.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) persistSession(ctx context.Context, account *accounts.Account) error {
	raw, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("session encode error: %w", err)
	}
	if err := s.state.Set(ctx, currentSessionKey, raw); err != nil {
		return fmt.Errorf("session persist error: %w", err)
	}
	return nil
}
