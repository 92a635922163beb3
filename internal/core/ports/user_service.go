package ports

import (
	"context"

	"github.com/studentmonitor/student-monitor-api/internal/core/domain"
)

// UserService exposes identity management beyond registration: the admin
// surface and self-service password changes. Destructive operations also
// revoke the identity's sessions.
type UserService interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	Delete(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	EmailAvailable(ctx context.Context, email string) (bool, error)
}
