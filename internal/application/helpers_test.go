package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"waybackhome/internal/infrastructure/memory"
	"waybackhome/internal/ports/input"
	"waybackhome/internal/ports/output"
)

var fixedNow = time.Date(2025, 11, 22, 9, 0, 0, 0, time.UTC)

type fixture struct {
	events       *memory.EventRepository
	participants *memory.ParticipantRepository
	objects      *mockObjectStore
	eventSvc     *EventService
	adminSvc     *AdminService
	partSvc      *ParticipantService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	events := memory.NewEventRepository()
	participants := memory.NewParticipantRepository(events)
	objects := &mockObjectStore{}

	f := &fixture{
		events:       events,
		participants: participants,
		objects:      objects,
		eventSvc:     NewEventService(events, participants),
		adminSvc:     NewAdminService(events, 500),
		partSvc:      NewParticipantService(participants, events, objects),
	}
	f.adminSvc.now = func() time.Time { return fixedNow }
	f.partSvc.now = func() time.Time { return fixedNow }
	f.partSvc.coord = func() int { return 42 }
	return f
}

func (f *fixture) createEvent(t *testing.T, code string, max int) {
	t.Helper()
	_, err := f.adminSvc.CreateEvent(context.Background(), input.EventSpec{
		Code:            code,
		Name:            "Event " + code,
		MaxParticipants: max,
	}, "admin@example.com")
	require.NoError(t, err)
}

func (f *fixture) register(id, event, username string) error {
	_, err := f.partSvc.RegisterParticipant(context.Background(), input.Registration{
		EventCode:     event,
		Username:      username,
		ParticipantID: id,
	})
	return err
}

type mockObjectStore struct {
	mock.Mock
}

var _ output.ObjectStore = (*mockObjectStore)(nil)

func (m *mockObjectStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}

type mockVerifier struct {
	mock.Mock
}

var _ output.IdentityVerifier = (*mockVerifier)(nil)

func (m *mockVerifier) Verify(ctx context.Context, token string) (output.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(output.Identity), args.Error(1)
}
