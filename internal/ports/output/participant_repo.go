package output

import (
	"context"

	"waybackhome/internal/domain/entities"
)

// ParticipantRepository owns participant records.
//
// Create derives UsernameLower, persists the record and increments the
// event's participant count. Lookups by username are case-insensitive and
// scoped to one event. ListByEvent returns active participants only.
type ParticipantRepository interface {
	Get(ctx context.Context, participantID string) (*entities.Participant, error)
	Create(ctx context.Context, participant *entities.Participant) (string, error)
	Update(ctx context.Context, participantID string, update entities.ParticipantUpdate) error
	ExistsUsername(ctx context.Context, eventCode, username string) (bool, error)
	GetByUsername(ctx context.Context, eventCode, username string) (*entities.Participant, error)
	ListByEvent(ctx context.Context, eventCode string) ([]entities.Participant, error)
}
