package memory

import (
	"context"
	"fmt"
	"sync"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository is a process-local participant store. Username
// uniqueness per event is checked and claimed under the same lock as the
// insert, which makes Create a conditional write.
type ParticipantRepository struct {
	mu           sync.RWMutex
	participants map[string]*entities.Participant
	order        []string
	usernames    map[usernameKey]string
	events       output.EventRepository
}

type usernameKey struct {
	eventCode string
	lower     string
}

func NewParticipantRepository(events output.EventRepository) *ParticipantRepository {
	return &ParticipantRepository{
		participants: make(map[string]*entities.Participant),
		usernames:    make(map[usernameKey]string),
		events:       events,
	}
}

func (r *ParticipantRepository) Get(_ context.Context, participantID string) (*entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[participantID]
	if !ok {
		return nil, nil
	}
	return clone(p), nil
}

func (r *ParticipantRepository) Create(ctx context.Context, participant *entities.Participant) (string, error) {
	participant.UsernameLower = entities.LowerUsername(participant.Username)
	key := usernameKey{eventCode: participant.EventCode, lower: participant.UsernameLower}

	r.mu.Lock()
	if _, ok := r.participants[participant.ParticipantID]; ok {
		r.mu.Unlock()
		return "", domain.ErrParticipantExists
	}
	if _, ok := r.usernames[key]; ok {
		r.mu.Unlock()
		return "", domain.ErrUsernameTaken
	}
	r.participants[participant.ParticipantID] = clone(participant)
	r.order = append(r.order, participant.ParticipantID)
	r.usernames[key] = participant.ParticipantID
	r.mu.Unlock()

	if err := r.events.IncrementParticipantCount(ctx, participant.EventCode); err != nil {
		r.remove(participant.ParticipantID, key)
		return "", fmt.Errorf("increment participant count: %w", err)
	}
	return participant.ParticipantID, nil
}

func (r *ParticipantRepository) remove(id string, key usernameKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, id)
	delete(r.usernames, key)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *ParticipantRepository) Update(_ context.Context, participantID string, update entities.ParticipantUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[participantID]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	update.Apply(p)
	return nil
}

func (r *ParticipantRepository) ExistsUsername(ctx context.Context, eventCode, username string) (bool, error) {
	p, err := r.GetByUsername(ctx, eventCode, username)
	return p != nil, err
}

func (r *ParticipantRepository) GetByUsername(_ context.Context, eventCode, username string) (*entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.usernames[usernameKey{eventCode: eventCode, lower: entities.LowerUsername(username)}]
	if !ok {
		return nil, nil
	}
	return clone(r.participants[id]), nil
}

func (r *ParticipantRepository) ListByEvent(_ context.Context, eventCode string) ([]entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entities.Participant
	for _, id := range r.order {
		p := r.participants[id]
		if p.EventCode != eventCode || !p.Active {
			continue
		}
		out = append(out, *clone(p))
	}
	return out, nil
}

func clone(p *entities.Participant) *entities.Participant {
	cp := *p
	if p.Profile.EvidenceURLs != nil {
		cp.Profile.EvidenceURLs = make(map[string]string, len(p.Profile.EvidenceURLs))
		for k, v := range p.Profile.EvidenceURLs {
			cp.Profile.EvidenceURLs[k] = v
		}
	}
	return &cp
}
