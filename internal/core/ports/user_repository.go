package ports

import (
	"context"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

// UserRepository defines the persistence contract for identities. Create must
// be atomic with the uniqueness check: the storage-level unique constraint is
// the sole source of truth for duplicates, surfaced as
// domain.ErrUsernameTaken or domain.ErrEmailTaken. Exists* checks are
// advisory only.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
