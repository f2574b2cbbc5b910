package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avoronin/accountkeeper/internal/common"
	"github.com/avoronin/accountkeeper/internal/logging"
	"github.com/google/uuid"
)

const (
	// MinUsernameLength is the minimum trimmed username length accepted
	// at sign-up.
	MinUsernameLength = 3

	// MinPasswordLength is the minimum trimmed password length accepted
	// at sign-up.
	MinPasswordLength = 6
)

// Service implements create-or-authenticate semantics over a Repository.
// Both the CLI session store and the HTTP server share this logic.
type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "accounts")}
}

// validateCredentials enforces the two length constraints. It runs before
// any storage access, so a validation failure never touches the table.
func validateCredentials(username, password string) error {
	if len(strings.TrimSpace(username)) < MinUsernameLength {
		return common.ErrorInvalidLoginFormat
	}
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return common.ErrorInvalidPasswordFormat
	}
	return nil
}

// SignInOrRegister looks up the lower-cased username. If no account exists,
// it creates one with RoleUser, empty follower sets, and the supplied
// avatar reference, and returns it. If an account exists, the stored secret
// is compared byte-for-byte with the supplied password: a match returns the
// existing account, a mismatch returns common.ErrorUnauthorized with no
// state change.
func (s *Service) SignInOrRegister(ctx context.Context, username, password, avatarRef string) (*Account, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	key := Key(username)

	account, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("account lookup error: %w", err)
		}
		return s.register(ctx, username, password, avatarRef)
	}

	if subtle.ConstantTimeCompare([]byte(account.Secret), []byte(password)) == 0 {
		return nil, common.ErrorUnauthorized
	}

	s.logger.Info(ctx, "signed in", "username_key", key)
	return account, nil
}

func (s *Service) register(ctx context.Context, username, password, avatarRef string) (*Account, error) {
	account := &Account{
		ID:          uuid.NewString(),
		DisplayName: username,
		Secret:      password,
		AvatarRef:   avatarRef,
		Role:        RoleUser,
		Followers:   []string{},
		Following:   []string{},
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "registered", "username_key", account.Key())
	return account, nil
}

// GetByID returns the account with the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// DemoteAdmins runs the invariant-repair pass: every RoleAdmin record in
// the table is rewritten to RoleUser. Run once at startup.
func (s *Service) DemoteAdmins(ctx context.Context) (int64, error) {
	n, err := s.repo.DemoteAdmins(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Warn(ctx, "demoted admin accounts", "count", n)
	}
	return n, nil
}
