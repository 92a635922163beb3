package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
	"github.com/studentmonitor/student-monitor-api/internal/core/ports"
)

// UserManagementService implements identity management beyond registration.
// Session-revoking side effects go through the session manager so a deleted
// or disabled identity can never keep an authenticated session.
type UserManagementService struct {
	repo        ports.UserRepository
	credentials ports.CredentialService
	sessions    ports.SessionManager
	log         zerolog.Logger
}

func NewUserManagementService(
	repo ports.UserRepository,
	credentials ports.CredentialService,
	sessions ports.SessionManager,
	log zerolog.Logger,
) *UserManagementService {
	return &UserManagementService{
		repo:        repo,
		credentials: credentials,
		sessions:    sessions,
		log:         log,
	}
}

func (s *UserManagementService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserManagementService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// SetEnabled flips an identity's enabled flag. Disabling also revokes the
// identity's active session, so the change takes effect immediately rather
// than on the next login.
func (s *UserManagementService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Enabled = enabled
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	if !enabled {
		if err := s.sessions.Revoke(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to revoke sessions for disabled user")
		}
	}
	s.log.Info().Str("user_id", id).Bool("enabled", enabled).Msg("user enabled flag updated")
	return nil
}

// Delete removes an identity and invalidates its sessions. The session
// revocation runs first so no request can authenticate against a deleted
// record.
func (s *UserManagementService) Delete(ctx context.Context, id string) error {
	if err := s.sessions.Revoke(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserManagementService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return &domain.ValidationError{Message: "Password must be at least 6 characters long"}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.credentials.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.credentials.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

// UsernameAvailable is an advisory pre-check for the registration form.
// The atomic create remains the sole uniqueness guard.
func (s *UserManagementService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := s.repo.ExistsByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// EmailAvailable is the advisory counterpart for email addresses.
func (s *UserManagementService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.repo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// BootstrapAdminInput configures the one-time admin bootstrap.
type BootstrapAdminInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// BootstrapAdmin creates a single ADMIN identity when none exists. A
// concurrent bootstrap losing the unique-constraint race is treated as
// success: the admin is there either way.
func (s *UserManagementService) BootstrapAdmin(ctx context.Context, in BootstrapAdminInput) error {
	count, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := s.credentials.Hash(in.Password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		Username:     strings.ToLower(in.Username),
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.RoleAdmin,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.repo.Create(ctx, admin); err != nil {
		switch err {
		case domain.ErrUsernameTaken, domain.ErrEmailTaken:
			return nil
		}
		return err
	}

	s.log.Info().Str("username", admin.Username).Msg("bootstrap admin created")
	return nil
}
