package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/input"
	"waybackhome/internal/ports/output"
)

var _ input.AdminUseCase = (*AdminService)(nil)

// AdminService manages the event lifecycle on behalf of verified admins.
type AdminService struct {
	eventRepo              output.EventRepository
	defaultMaxParticipants int
	now                    func() time.Time
}

func NewAdminService(eventRepo output.EventRepository, defaultMaxParticipants int) *AdminService {
	return &AdminService{
		eventRepo:              eventRepo,
		defaultMaxParticipants: defaultMaxParticipants,
		now:                    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AdminService) CreateEvent(ctx context.Context, spec input.EventSpec, actorEmail string) (*entities.Event, error) {
	maxParticipants := spec.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = s.defaultMaxParticipants
	}
	if err := domain.ValidateEventCode(spec.Code); err != nil {
		return nil, err
	}
	if err := domain.ValidateEventName(spec.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateMaxParticipants(maxParticipants); err != nil {
		return nil, err
	}

	existing, err := s.eventRepo.Get(ctx, spec.Code)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEventCodeConflict
	}

	event := &entities.Event{
		Code:             spec.Code,
		Name:             spec.Name,
		Description:      strings.TrimSpace(spec.Description),
		MaxParticipants:  maxParticipants,
		ParticipantCount: 0,
		CreatedAt:        s.now(),
		CreatedBy:        actorEmail,
		Active:           true,
	}
	// The store create is conditional too; a concurrent create of the same
	// code loses here with ErrEventCodeConflict.
	if _, err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	log.Info().Str("event_code", event.Code).Str("actor", actorEmail).
		Int("max_participants", event.MaxParticipants).Msg("event created")
	return event, nil
}

// ListEvents returns every event regardless of its active flag.
func (s *AdminService) ListEvents(ctx context.Context) ([]entities.Event, error) {
	events, err := s.eventRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *AdminService) DeactivateEvent(ctx context.Context, code, actorEmail string) error {
	event, err := s.eventRepo.Get(ctx, code)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return domain.ErrEventNotFound
	}
	if err := s.eventRepo.SoftDelete(ctx, code); err != nil {
		return fmt.Errorf("deactivate event: %w", err)
	}
	log.Info().Str("event_code", code).Str("actor", actorEmail).Msg("event deactivated")
	return nil
}
