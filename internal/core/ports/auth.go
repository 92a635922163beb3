package ports

import (
	"context"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

// RegisterInput carries a signup request into the registration workflow.
// Username is optional and defaults to the email address.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegistrationService validates and creates a new identity.
type RegistrationService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
}

// Authenticator resolves a login identifier (username or email) to an
// identity and verifies the submitted password. All failure modes collapse
// into domain.ErrInvalidCredentials so callers cannot probe for identifiers.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, password string) (*domain.User, error)
}

// CredentialService is the one-way hashing boundary. Implementations never
// log or retain the plaintext argument.
type CredentialService interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
