package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/student-system/internal/core/domain"
	"github.com/campushq/student-system/internal/core/ports"
	"github.com/campushq/student-system/internal/pkg/token"
)

const minPasswordLength = 6

// AuthService implements registration, login and the administrative account
// mutations. New registrations always receive the least-privileged role;
// elevation is a separate admin-only operation.
type AuthService struct {
	repo    ports.AuthRepository
	tokens  *token.Manager
	revoker ports.TokenRevoker
	audit   ports.AuditSink
	logger  zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens *token.Manager, revoker ports.TokenRevoker, audit ports.AuditSink, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, revoker: revoker, audit: audit, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" || email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	// Fast-path duplicate check. The unique indexes on the store are the
	// authoritative guard; a concurrent registration that slips past this
	// lookup still fails in Create.
	existing, err := s.repo.FindByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditEvent{Actor: email, Action: domain.AuditRegistered})
	s.logger.Info().Str("username", username).Msg("account registered")
	return created, nil
}

// Login authenticates by email and issues a token. A missing account and a
// wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(domain.AuditEvent{Actor: email, Action: domain.AuditLoginFailed, Detail: "unknown account"})
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !user.Active {
		s.record(domain.AuditEvent{Actor: email, Action: domain.AuditLoginFailed, Detail: "account disabled"})
		return "", nil, domain.ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.record(domain.AuditEvent{Actor: email, Action: domain.AuditLoginFailed, Detail: "bad password"})
		return "", nil, domain.ErrInvalidCredentials
	}

	tkn, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.record(domain.AuditEvent{Actor: email, Action: domain.AuditLoginSucceeded})
	return tkn, user, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
// Tokens are otherwise stateless; without logout they stay valid until expiry
// even if the account is later disabled.
func (s *AuthService) Logout(ctx context.Context, actor, rawToken string, ttl time.Duration) error {
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, rawToken, ttl); err != nil {
			return err
		}
	}
	s.record(domain.AuditEvent{Actor: actor, Action: domain.AuditLoggedOut})
	return nil
}

// ChangeRole moves an account to another role in the known set.
func (s *AuthService) ChangeRole(ctx context.Context, actor, id, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditEvent{Actor: actor, Action: domain.AuditRoleChanged, Subject: user.Email, Detail: role})
	return user, nil
}

// SetActive enables or disables an account. Already-issued tokens stay valid
// until expiry unless individually revoked.
func (s *AuthService) SetActive(ctx context.Context, actor, id string, active bool) (*domain.User, error) {
	user, err := s.repo.UpdateActive(ctx, id, active)
	if err != nil {
		return nil, err
	}

	detail := "disabled"
	if active {
		detail = "enabled"
	}
	s.record(domain.AuditEvent{Actor: actor, Action: domain.AuditActiveChanged, Subject: user.Email, Detail: detail})
	return user, nil
}

// DeleteUser permanently removes an account. Tokens it already holds stay
// valid until expiry unless individually revoked.
func (s *AuthService) DeleteUser(ctx context.Context, actor, id string) (*domain.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuditEvent{Actor: actor, Action: domain.AuditUserDeleted, Subject: user.Email})
	s.logger.Info().Str("username", user.Username).Msg("account deleted")
	return user, nil
}

func (s *AuthService) record(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.At = time.Now().UTC()
	s.audit.Record(event)
}
