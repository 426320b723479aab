package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/input"
	"waybackhome/internal/ports/output"
)

var _ input.ParticipantUseCase = (*ParticipantService)(nil)

var avatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// ParticipantService runs registration and the participant profile flows.
type ParticipantService struct {
	participantRepo output.ParticipantRepository
	eventRepo       output.EventRepository
	objects         output.ObjectStore
	now             func() time.Time
	coord           func() int
}

func NewParticipantService(
	participantRepo output.ParticipantRepository,
	eventRepo output.EventRepository,
	objects output.ObjectStore,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		objects:         objects,
		now:             func() time.Time { return time.Now().UTC() },
		coord:           func() int { return rand.IntN(domain.MapSize) },
	}
}

// RegisterParticipant admits a new participant into an event.
//
// The capacity and username checks run before the store create. Username
// collisions that slip past the check are still rejected by the store's
// conditional create; capacity may be exceeded by concurrent admissions.
func (s *ParticipantService) RegisterParticipant(ctx context.Context, reg input.Registration) (*entities.Participant, error) {
	if err := domain.ValidateUsername(reg.Username); err != nil {
		return nil, err
	}
	if reg.ParticipantID == "" {
		reg.ParticipantID = uuid.NewString()
	}
	if err := domain.ValidateParticipantID(reg.ParticipantID); err != nil {
		return nil, err
	}
	start := input.Coordinates{X: s.coord(), Y: s.coord()}
	if reg.Start != nil {
		if err := domain.ValidateCoordinates(reg.Start.X, reg.Start.Y); err != nil {
			return nil, err
		}
		start = *reg.Start
	}

	event, err := s.eventRepo.Get(ctx, reg.EventCode)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	if !event.Active {
		return nil, domain.ErrEventInactive
	}
	if event.IsFull() {
		return nil, domain.ErrEventFull
	}
	taken, err := s.participantRepo.ExistsUsername(ctx, reg.EventCode, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrUsernameTaken
	}
	existing, err := s.participantRepo.Get(ctx, reg.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrParticipantExists
	}

	profile := reg.Profile
	profile.X, profile.Y = start.X, start.Y
	profile.LocationConfirmed = false
	participant := &entities.Participant{
		ParticipantID: reg.ParticipantID,
		EventCode:     reg.EventCode,
		Username:      reg.Username,
		Active:        true,
		CreatedAt:     s.now(),
		Profile:       profile,
	}
	if _, err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}

	log.Info().Str("event_code", participant.EventCode).
		Str("participant_id", participant.ParticipantID).Msg("participant created")
	return participant, nil
}

// CompleteRegistration stamps registered_at the first time it is called and
// updates the optional profile fields on every call.
func (s *ParticipantService) CompleteRegistration(ctx context.Context, participantID string, suitColor, appearance *string) (*entities.Participant, error) {
	p, err := s.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	update := entities.ParticipantUpdate{SuitColor: suitColor, Appearance: appearance}
	if !p.IsRegistered() {
		now := s.now()
		update.RegisteredAt = &now
	}
	if err := s.apply(ctx, p, update); err != nil {
		return nil, err
	}
	if update.RegisteredAt != nil {
		log.Info().Str("event_code", p.EventCode).Str("participant_id", p.ParticipantID).
			Msg("participant registered")
	}
	return p, nil
}

func (s *ParticipantService) GetParticipant(ctx context.Context, participantID string) (*entities.Participant, error) {
	p, err := s.participantRepo.Get(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if p == nil {
		return nil, domain.ErrParticipantNotFound
	}
	return p, nil
}

// ConfirmLocation pins the participant at the given coordinates.
func (s *ParticipantService) ConfirmLocation(ctx context.Context, participantID string, at input.Coordinates) (*entities.Participant, error) {
	if err := domain.ValidateCoordinates(at.X, at.Y); err != nil {
		return nil, err
	}
	p, err := s.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	confirmed := true
	update := entities.ParticipantUpdate{X: &at.X, Y: &at.Y, LocationConfirmed: &confirmed}
	if err := s.apply(ctx, p, update); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadAvatar replaces the participant's portrait and icon. Previous
// uploads under the participant's prefix are removed first.
func (s *ParticipantService) UploadAvatar(ctx context.Context, participantID string, portrait, icon input.Upload) (*entities.Participant, error) {
	portraitType, err := sniffImage(portrait)
	if err != nil {
		return nil, err
	}
	iconType, err := sniffImage(icon)
	if err != nil {
		return nil, err
	}
	p, err := s.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	prefix := AvatarPrefix(p.EventCode, p.ParticipantID)
	if err := s.objects.DeletePrefix(ctx, prefix); err != nil {
		return nil, fmt.Errorf("delete avatars: %w", err)
	}
	portraitURL, err := s.objects.Put(ctx, prefix+"portrait"+portraitType.Extension(), portrait.Data, portraitType.String())
	if err != nil {
		return nil, fmt.Errorf("put portrait: %w", err)
	}
	iconURL, err := s.objects.Put(ctx, prefix+"icon"+iconType.Extension(), icon.Data, iconType.String())
	if err != nil {
		return nil, fmt.Errorf("put icon: %w", err)
	}

	update := entities.ParticipantUpdate{PortraitURL: &portraitURL, IconURL: &iconURL}
	if err := s.apply(ctx, p, update); err != nil {
		return nil, err
	}
	log.Info().Str("participant_id", p.ParticipantID).Msg("avatar uploaded")
	return p, nil
}

// AvatarPrefix is the object store prefix holding a participant's images.
func AvatarPrefix(eventCode, participantID string) string {
	return "avatars/" + eventCode + "/" + participantID + "/"
}

func (s *ParticipantService) apply(ctx context.Context, p *entities.Participant, update entities.ParticipantUpdate) error {
	if err := s.participantRepo.Update(ctx, p.ParticipantID, update); err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	update.Apply(p)
	return nil
}

func sniffImage(u input.Upload) (*mimetype.MIME, error) {
	if len(u.Data) == 0 {
		return nil, domain.ErrUnsupportedMedia.With(fmt.Errorf("empty upload"))
	}
	mt := mimetype.Detect(u.Data)
	for m := mt; m != nil; m = m.Parent() {
		if avatarTypes[m.String()] {
			return m, nil
		}
	}
	return nil, domain.ErrUnsupportedMedia.With(fmt.Errorf("detected %s", mt.String()))
}
