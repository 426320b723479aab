package database

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

var created = time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)

func eventRow(code string, active bool) *pgxmock.Rows {
	return pgxmock.NewRows(eventColumns).AddRow(
		code, "DevFest", "workshop", int32(100), int32(3),
		created, "admin@example.com", active, nil,
	)
}

func TestEventRepository_Get(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectQuery(`SELECT (.+) FROM events WHERE code = \$1`).
		WithArgs("devfest-25").
		WillReturnRows(eventRow("devfest-25", true))

	e, err := repo.Get(context.Background(), "devfest-25")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "workshop", e.Description)
	assert.Equal(t, 100, e.MaxParticipants)
	assert.Equal(t, 3, e.ParticipantCount)
	assert.Equal(t, created, e.CreatedAt)
	assert.True(t, e.DeactivatedAt.IsZero())
}

func TestEventRepository_GetMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectQuery(`FROM events WHERE code = \$1`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows(eventColumns))

	e, err := repo.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestEventRepository_GetUnavailable(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectQuery(`FROM events`).
		WithArgs("ev1").
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.Get(context.Background(), "ev1")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestEventRepository_CreateConflict(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectExec(`INSERT INTO events (.+) ON CONFLICT \(code\) DO NOTHING`).
		WithArgs(anyArgs(len(eventColumns))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	_, err := repo.Create(context.Background(), &entities.Event{Code: "dup", Name: "Dup", MaxParticipants: 10})
	assert.ErrorIs(t, err, domain.ErrEventCodeConflict)
}

func TestEventRepository_IncrementIsSingleStatement(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectExec(`UPDATE events SET participant_count = participant_count \+ 1 WHERE code = \$1`).
		WithArgs("ev1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`participant_count \+ 1`).
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.IncrementParticipantCount(context.Background(), "ev1"))
	assert.ErrorIs(t, repo.IncrementParticipantCount(context.Background(), "ghost"), domain.ErrEventNotFound)
}

func TestEventRepository_SoftDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	mock.ExpectExec(`UPDATE events SET active = \$1, deactivated_at = \$2 WHERE code = \$3`).
		WithArgs(false, pgtype.Timestamptz{Time: now, Valid: true}, "ev1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE events SET active`).
		WithArgs(false, pgxmock.AnyArg(), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.SoftDelete(context.Background(), "ev1"))
	assert.ErrorIs(t, repo.SoftDelete(context.Background(), "ghost"), domain.ErrEventNotFound)
}

func TestEventRepository_ListActive(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectQuery(`SELECT (.+) FROM events WHERE active = \$1 ORDER BY created_at, code`).
		WithArgs(true).
		WillReturnRows(eventRow("ev1", true))

	events, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev1", events[0].Code)
}

func TestParticipantRepository_CreateCommitsWithIncrement(t *testing.T) {
	mock := newMock(t)
	repo := NewParticipantRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO participants`).
		WithArgs(anyArgs(len(participantColumns))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE events SET participant_count = participant_count \+ 1`).
		WithArgs("ev1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	p := &entities.Participant{ParticipantID: "p1", EventCode: "ev1", Username: "Nova", Active: true}
	id, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "p1", id)
	assert.Equal(t, "nova", p.UsernameLower)
}

func TestParticipantRepository_CreateMapsConstraints(t *testing.T) {
	tests := []struct {
		name    string
		pgErr   *pgconn.PgError
		wantErr error
	}{
		{"username", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintParticipantUsername}, domain.ErrUsernameTaken},
		{"primary key", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintParticipantPK}, domain.ErrParticipantExists},
		{"missing event", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: constraintParticipantEventFK}, domain.ErrEventNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewParticipantRepository(mock)

			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO participants`).
				WithArgs(anyArgs(len(participantColumns))...).
				WillReturnError(tt.pgErr)
			mock.ExpectRollback()

			_, err := repo.Create(context.Background(), &entities.Participant{ParticipantID: "p1", EventCode: "ev1", Username: "Ana"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParticipantRepository_CreateRollsBackWhenCounterFails(t *testing.T) {
	mock := newMock(t)
	repo := NewParticipantRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO participants`).
		WithArgs(anyArgs(len(participantColumns))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`participant_count \+ 1`).
		WithArgs("ev1").
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &entities.Participant{ParticipantID: "p1", EventCode: "ev1", Username: "Ana"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock timeout")
}

func TestParticipantRepository_ExistsUsername(t *testing.T) {
	mock := newMock(t)
	repo := NewParticipantRepository(mock)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ev1", "nova").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsUsername(context.Background(), "ev1", "NoVa")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParticipantRepository_GetByUsername(t *testing.T) {
	mock := newMock(t)
	repo := NewParticipantRepository(mock)

	mock.ExpectQuery(`FROM participants WHERE event_code = \$1 AND username_lower = \$2 LIMIT 1`).
		WithArgs("ev1", "ana").
		WillReturnRows(pgxmock.NewRows(participantColumns).AddRow(
			"p1", "ev1", "Ana", "ana", true,
			created, created,
			"blue", "", int32(10), int32(20), false, "", "", map[string]string{"soil": "u"},
		))

	p, err := repo.GetByUsername(context.Background(), "ev1", "ANA")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p1", p.ParticipantID)
	assert.Equal(t, 10, p.Profile.X)
	assert.Equal(t, 20, p.Profile.Y)
	assert.True(t, p.IsRegistered())
	assert.Equal(t, "u", p.Profile.EvidenceURLs["soil"])
}

func TestParticipantRepository_UpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewParticipantRepository(mock)

	mock.ExpectExec(`UPDATE participants SET x = \$1, y = \$2, location_confirmed = \$3 WHERE participant_id = \$4`).
		WithArgs(5, 6, true, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	x, y, ok := 5, 6, true
	err := repo.Update(context.Background(), "ghost", entities.ParticipantUpdate{X: &x, Y: &y, LocationConfirmed: &ok})
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestAdminRepository(t *testing.T) {
	mock := newMock(t)
	repo := NewAdminRepository(mock)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM admins WHERE email = \$1\)`).
		WithArgs("bob@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO admins`).
		WithArgs("alice@example.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ok, err := repo.IsAdmin(context.Background(), " Bob@X.com")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, repo.Grant(context.Background(), "Alice@Example.com"))
}

func TestAdminRepository_IsAdminConnectionLost(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connection reset", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}},
		{"unexpected eof", io.ErrUnexpectedEOF},
		{"eof", io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewAdminRepository(mock)
			mock.ExpectQuery(`FROM admins`).
				WithArgs("alice@example.com").
				WillReturnError(tt.err)

			_, err := repo.IsAdmin(context.Background(), "alice@example.com")
			assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
