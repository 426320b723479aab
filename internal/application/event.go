package application

import (
	"context"
	"fmt"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/input"
	"waybackhome/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

// EventService serves the public event surface.
type EventService struct {
	eventRepo       output.EventRepository
	participantRepo output.ParticipantRepository
}

func NewEventService(
	eventRepo output.EventRepository,
	participantRepo output.ParticipantRepository,
) *EventService {
	return &EventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
	}
}

// GetEvent returns an active event. A deactivated event is reported as
// domain.ErrEventInactive so callers can tell "ended" from "never was".
func (s *EventService) GetEvent(ctx context.Context, code string) (*entities.Event, error) {
	event, err := s.requireEvent(ctx, code)
	if err != nil {
		return nil, err
	}
	if !event.Active {
		return nil, domain.ErrEventInactive
	}
	return event, nil
}

// CheckUsername reports whether username is still available in the event.
func (s *EventService) CheckUsername(ctx context.Context, code, username string) (bool, error) {
	if _, err := s.requireEvent(ctx, code); err != nil {
		return false, err
	}
	exists, err := s.participantRepo.ExistsUsername(ctx, code, username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !exists, nil
}

// ListParticipants returns the participants shown on the event map: active
// and with a completed registration.
func (s *EventService) ListParticipants(ctx context.Context, code string) ([]entities.Participant, error) {
	if _, err := s.requireEvent(ctx, code); err != nil {
		return nil, err
	}
	all, err := s.participantRepo.ListByEvent(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	listed := make([]entities.Participant, 0, len(all))
	for i := range all {
		if all[i].Listed() {
			listed = append(listed, all[i])
		}
	}
	return listed, nil
}

func (s *EventService) requireEvent(ctx context.Context, code string) (*entities.Event, error) {
	event, err := s.eventRepo.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}
