package input

import (
	"context"

	"waybackhome/internal/domain/entities"
)

// Coordinates is a position on the shared map.
type Coordinates struct {
	X int
	Y int
}

// Registration is the input for creating a participant identity.
type Registration struct {
	EventCode     string
	Username      string
	ParticipantID string // generated when empty
	Profile       entities.Profile
	Start         *Coordinates // random when nil
}

// Upload is one uploaded file.
type Upload struct {
	Data        []byte
	ContentType string
}

type ParticipantUseCase interface {
	RegisterParticipant(ctx context.Context, reg Registration) (*entities.Participant, error)
	CompleteRegistration(ctx context.Context, participantID string, suitColor, appearance *string) (*entities.Participant, error)
	GetParticipant(ctx context.Context, participantID string) (*entities.Participant, error)
	ConfirmLocation(ctx context.Context, participantID string, at Coordinates) (*entities.Participant, error)
	UploadAvatar(ctx context.Context, participantID string, portrait, icon Upload) (*entities.Participant, error)
}
