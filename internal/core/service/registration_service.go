package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

const minPasswordLength = 6

// RegistrationService validates and creates new identities. Uniqueness is
// enforced by the repository's atomic create; this service only translates
// the resulting duplicate errors into user-facing messages.
type RegistrationService struct {
	repo        ports.UserRepository
	credentials ports.CredentialService
	log         zerolog.Logger
}

func NewRegistrationService(repo ports.UserRepository, credentials ports.CredentialService, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{repo: repo, credentials: credentials, log: log}
}

// Register creates a new identity. Validation runs in a fixed order before
// any write: email, password, first name, last name. Username defaults to
// the email address when omitted. Both username and email are stored
// lowercased so login lookups and registration share one normalization.
func (s *RegistrationService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !validEmail(email) {
		return nil, &domain.ValidationError{Message: "Please provide a valid email address"}
	}
	if len(in.Password) < minPasswordLength {
		return nil, &domain.ValidationError{Message: "Password must be at least 6 characters long"}
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, &domain.ValidationError{Message: "First name is required"}
	}
	if strings.TrimSpace(in.LastName) == "" {
		return nil, &domain.ValidationError{Message: "Last name is required"}
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = email
	}

	hash, err := s.credentials.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     strings.ToLower(username),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleUser,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("username", created.Username).
		Msg("user registered")

	return created, nil
}

// validEmail applies the minimal syntactic rule: an '@' with a '.' somewhere
// after it.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 0 {
		return false
	}
	return strings.LastIndex(email, ".") > at
}
