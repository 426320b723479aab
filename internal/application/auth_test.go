package application

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"waybackhome/internal/domain"
	"waybackhome/internal/infrastructure/database"
	"waybackhome/internal/infrastructure/memory"
	"waybackhome/internal/ports/output"
)

func TestAuthGate_RequireAdmin(t *testing.T) {
	admins := memory.NewAdminDirectory("alice@example.com")

	tests := []struct {
		name      string
		header    string
		identity  output.Identity
		verifyErr error
		wantEmail string
		wantErr   error
	}{
		{
			name:      "admin",
			header:    "Bearer good",
			identity:  output.Identity{Email: "Alice@Example.com"},
			wantEmail: "Alice@Example.com",
		},
		{
			name:     "verified but not an admin",
			header:   "Bearer good",
			identity: output.Identity{Email: "bob@x.com"},
			wantErr:  domain.ErrNotAuthorized,
		},
		{
			name:     "no email claim",
			header:   "Bearer good",
			identity: output.Identity{Subject: "svc"},
			wantErr:  domain.ErrNoEmailClaim,
		},
		{
			name:      "expired",
			header:    "Bearer old",
			verifyErr: domain.ErrExpiredCredential,
			wantErr:   domain.ErrExpiredCredential,
		},
		{
			name:      "revoked",
			header:    "Bearer revoked",
			verifyErr: domain.ErrRevokedCredential,
			wantErr:   domain.ErrRevokedCredential,
		},
		{
			name:      "unexpected verifier error",
			header:    "Bearer weird",
			verifyErr: errors.New("boom"),
			wantErr:   domain.ErrVerificationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockVerifier{}
			verifier.On("Verify", mock.Anything, tt.header[len("Bearer "):]).Return(tt.identity, tt.verifyErr)
			gate := NewAuthGate(verifier, admins, time.Second)

			email, err := gate.RequireAdmin(context.Background(), tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, email)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, email)
			verifier.AssertExpectations(t)
		})
	}
}

func TestAuthGate_MalformedHeaderSkipsVerifier(t *testing.T) {
	verifier := &mockVerifier{}
	gate := NewAuthGate(verifier, memory.NewAdminDirectory(), time.Second)

	for _, header := range []string{"", "Basic abc", "bearer abc", "Bearer ", "Token"} {
		_, err := gate.RequireAdmin(context.Background(), header)
		assert.ErrorIs(t, err, domain.ErrMalformedCredential, header)
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	}
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestAuthGate_ForbiddenIsNotUnauthorized(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("Verify", mock.Anything, "tok").Return(output.Identity{Email: "bob@x.com"}, nil)
	gate := NewAuthGate(verifier, memory.NewAdminDirectory("alice@example.com"), time.Second)

	_, err := gate.RequireAdmin(context.Background(), "Bearer tok")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestAuthGate_VerifierTimeout(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("Verify", mock.Anything, "slow").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(output.Identity{}, context.DeadlineExceeded)
	gate := NewAuthGate(verifier, memory.NewAdminDirectory(), 10*time.Millisecond)

	_, err := gate.RequireAdmin(context.Background(), "Bearer slow")
	assert.ErrorIs(t, err, domain.ErrVerificationFailed)
}

type brokenDirectory struct{ err error }

func (d brokenDirectory) IsAdmin(context.Context, string) (bool, error) { return false, d.err }

func TestAuthGate_DirectoryUnreachable(t *testing.T) {
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer db.Close()
	db.ExpectQuery(`FROM admins`).
		WithArgs("alice@example.com").
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET})

	directories := map[string]output.AdminDirectory{
		"postgres": database.NewAdminRepository(db),
		"opaque":   brokenDirectory{err: errors.New("pool closed")},
	}
	for name, admins := range directories {
		t.Run(name, func(t *testing.T) {
			verifier := &mockVerifier{}
			verifier.On("Verify", mock.Anything, "tok").Return(output.Identity{Email: "alice@example.com"}, nil)
			gate := NewAuthGate(verifier, admins, time.Second)

			_, err := gate.RequireAdmin(context.Background(), "Bearer tok")
			assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
			assert.Equal(t, domain.KindUpstreamUnavailable, domain.KindOf(err))
		})
	}
	assert.NoError(t, db.ExpectationsWereMet())
}
