package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// dummyHash is verified when the identifier resolves to no identity, so the
// response time of a failed login does not reveal whether the identifier
// exists. It never matches an accepted credential because absent identities
// fail regardless of the verification result.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService resolves a login identifier to an identity and verifies the
// submitted password. Absent identity, wrong password and disabled account
// all fail with the same domain.ErrInvalidCredentials.
type AuthService struct {
	repo        ports.UserRepository
	credentials ports.CredentialService
	log         zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, credentials ports.CredentialService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, credentials: credentials, log: log}
}

// Authenticate looks up by username or email. The identifier is lowercased
// to match the normalization applied at registration, so the write and read
// sides always agree.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.credentials.Verify(password, dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.credentials.Verify(password, user.PasswordHash) {
		s.log.Debug().Str("user_id", user.ID).Msg("password verification failed")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Enabled {
		s.log.Debug().Str("user_id", user.ID).Msg("login rejected for disabled account")
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}
