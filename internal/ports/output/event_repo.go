package output

import (
	"context"

	"waybackhome/internal/domain/entities"
)

// EventRepository owns event records.
//
// Get returns (nil, nil) when the code is absent. Create fails with
// domain.ErrEventCodeConflict when the code is already stored. Update and
// SoftDelete fail with domain.ErrEventNotFound on a missing code.
// IncrementParticipantCount must be a native atomic add.
type EventRepository interface {
	Get(ctx context.Context, code string) (*entities.Event, error)
	Create(ctx context.Context, event *entities.Event) (string, error)
	Update(ctx context.Context, code string, update entities.EventUpdate) error
	SoftDelete(ctx context.Context, code string) error
	List(ctx context.Context, activeOnly bool) ([]entities.Event, error)
	IncrementParticipantCount(ctx context.Context, code string) error
}
