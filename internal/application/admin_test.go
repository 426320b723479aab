package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybackhome/internal/domain"
	"waybackhome/internal/ports/input"
)

func TestAdminService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	e, err := f.adminSvc.CreateEvent(ctx, input.EventSpec{Code: "devfest-25", Name: "DevFest"}, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, 500, e.MaxParticipants)
	assert.Equal(t, 0, e.ParticipantCount)
	assert.True(t, e.Active)
	assert.Equal(t, "root@example.com", e.CreatedBy)
	assert.Equal(t, fixedNow, e.CreatedAt)

	stored, err := f.events.Get(ctx, "devfest-25")
	require.NoError(t, err)
	assert.Equal(t, *e, *stored)
}

func TestAdminService_CreateEventConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createEvent(t, "taken", 10)

	_, err := f.adminSvc.CreateEvent(ctx, input.EventSpec{Code: "taken", Name: "Again"}, "root@example.com")
	assert.ErrorIs(t, err, domain.ErrEventCodeConflict)
}

func TestAdminService_CreateEventValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name string
		spec input.EventSpec
		code string
	}{
		{"bad code", input.EventSpec{Code: "Bad Code", Name: "Valid"}, "invalid_event_code"},
		{"short name", input.EventSpec{Code: "ok-code", Name: "ab"}, "invalid_event_name"},
		{"too few seats", input.EventSpec{Code: "ok-code", Name: "Valid", MaxParticipants: 5}, "invalid_max_participants"},
		{"too many seats", input.EventSpec{Code: "ok-code", Name: "Valid", MaxParticipants: 10001}, "invalid_max_participants"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.adminSvc.CreateEvent(ctx, tt.spec, "root@example.com")
			require.Error(t, err)
			assert.Equal(t, tt.code, domain.Code(err))
			assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
		})
	}
}

func TestAdminService_ListAndDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createEvent(t, "one", 10)
	f.createEvent(t, "two", 10)

	require.NoError(t, f.adminSvc.DeactivateEvent(ctx, "one", "root@example.com"))
	require.NoError(t, f.adminSvc.DeactivateEvent(ctx, "one", "root@example.com"))
	assert.ErrorIs(t, f.adminSvc.DeactivateEvent(ctx, "zzz", "root@example.com"), domain.ErrEventNotFound)

	events, err := f.adminSvc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Active)
	assert.True(t, events[1].Active)
}
