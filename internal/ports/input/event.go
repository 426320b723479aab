package input

import (
	"context"

	"waybackhome/internal/domain/entities"
)

// EventUseCase serves the public, unauthenticated event surface.
type EventUseCase interface {
	GetEvent(ctx context.Context, code string) (*entities.Event, error)
	CheckUsername(ctx context.Context, code, username string) (bool, error)
	ListParticipants(ctx context.Context, code string) ([]entities.Participant, error)
}

// EventSpec is the admin input for a new event. A zero MaxParticipants
// selects the configured default.
type EventSpec struct {
	Code            string
	Name            string
	Description     string
	MaxParticipants int
}

// AdminUseCase manages the event lifecycle. Callers must have passed the
// authorization gate; actorEmail is the verified admin.
type AdminUseCase interface {
	CreateEvent(ctx context.Context, spec EventSpec, actorEmail string) (*entities.Event, error)
	ListEvents(ctx context.Context) ([]entities.Event, error)
	DeactivateEvent(ctx context.Context, code, actorEmail string) error
}

// AuthUseCase guards privileged operations.
type AuthUseCase interface {
	// RequireAdmin validates an Authorization header value and returns the
	// verified admin email.
	RequireAdmin(ctx context.Context, authorization string) (string, error)
}
