package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"waybackhome/internal/domain"
)

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const (
	constraintParticipantPK       = "participants_pkey"
	constraintParticipantUsername = "participants_event_username_key"
	constraintParticipantEventFK  = "participants_event_code_fkey"
)

// storeErr wraps err with op, translating connectivity failures into
// domain.ErrUpstreamUnavailable and passing domain errors through.
func storeErr(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if unreachable(err) {
		return domain.ErrUpstreamUnavailable.With(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// unreachable reports whether err means the database could not be reached or
// dropped the connection mid-query.
func unreachable(err error) bool {
	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr), errors.As(err, &netErr):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case pgconn.Timeout(err), errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

// participantInsertErr maps constraint violations raised by a participant insert.
func participantInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintParticipantUsername:
			return domain.ErrUsernameTaken
		case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintParticipantPK:
			return domain.ErrParticipantExists
		case pgErr.Code == pgForeignKeyViolation && pgErr.ConstraintName == constraintParticipantEventFK:
			return domain.ErrEventNotFound
		}
	}
	return storeErr("insert participant", err)
}
