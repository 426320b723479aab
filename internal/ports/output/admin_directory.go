package output

import (
	"context"

	"waybackhome/internal/domain/entities"
)

// AdminDirectory answers membership questions. Results must not be cached.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AdminProvisioner manages directory entries out-of-band (CLI only).
type AdminProvisioner interface {
	AdminDirectory
	Grant(ctx context.Context, email string) error
	Revoke(ctx context.Context, email string) error
	ListAdmins(ctx context.Context) ([]entities.Admin, error)
}
