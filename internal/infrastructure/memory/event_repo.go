package memory

import (
	"context"
	"sync"
	"time"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

// EventRepository is a process-local event store. All operations are
// linearizable through one mutex, so the counter increment is atomic.
type EventRepository struct {
	mu     sync.RWMutex
	events map[string]*entities.Event
	order  []string
	now    func() time.Time
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		events: make(map[string]*entities.Event),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *EventRepository) Get(_ context.Context, code string) (*entities.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[code]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *EventRepository) Create(_ context.Context, event *entities.Event) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.Code]; ok {
		return "", domain.ErrEventCodeConflict
	}
	cp := *event
	r.events[event.Code] = &cp
	r.order = append(r.order, event.Code)
	return event.Code, nil
}

func (r *EventRepository) Update(_ context.Context, code string, update entities.EventUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[code]
	if !ok {
		return domain.ErrEventNotFound
	}
	update.Apply(e)
	return nil
}

func (r *EventRepository) SoftDelete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[code]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.Active = false
	e.DeactivatedAt = r.now()
	return nil
}

func (r *EventRepository) List(_ context.Context, activeOnly bool) ([]entities.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entities.Event, 0, len(r.order))
	for _, code := range r.order {
		e := r.events[code]
		if activeOnly && !e.Active {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *EventRepository) IncrementParticipantCount(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[code]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.ParticipantCount++
	return nil
}
