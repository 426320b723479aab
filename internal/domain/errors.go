package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error independently of the transport that reports it.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindUnauthorized
	KindForbidden
	KindResourceExhausted
	KindGone
	KindUpstreamUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindResourceExhausted:
		return "resource_exhausted"
	case KindGone:
		return "gone"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "internal"
	}
}

// Error carries a Kind and a stable reason code. Code doubles as the i18n
// message id for user-facing messages.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code so a sentinel still matches after
// being re-created with a cause via With.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// With returns a copy of e that wraps cause.
func (e *Error) With(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Err: cause}
}

func newError(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// Domain errors.
var (
	ErrEventNotFound       = newError(KindNotFound, "event_not_found")
	ErrEventInactive       = newError(KindGone, "event_inactive")
	ErrEventFull           = newError(KindResourceExhausted, "event_full")
	ErrEventCodeConflict   = newError(KindConflict, "event_code_conflict")
	ErrUsernameTaken       = newError(KindConflict, "username_taken")
	ErrParticipantNotFound = newError(KindNotFound, "participant_not_found")
	ErrParticipantExists   = newError(KindConflict, "participant_exists")

	ErrMalformedCredential = newError(KindUnauthorized, "malformed_credential")
	ErrInvalidCredential   = newError(KindUnauthorized, "invalid_credential")
	ErrExpiredCredential   = newError(KindUnauthorized, "expired_credential")
	ErrRevokedCredential   = newError(KindUnauthorized, "revoked_credential")
	ErrVerificationFailed  = newError(KindUnauthorized, "verification_failed")
	ErrNoEmailClaim        = newError(KindUnauthorized, "no_email_claim")
	ErrNotAuthorized       = newError(KindForbidden, "not_authorized")

	ErrUpstreamUnavailable = newError(KindUpstreamUnavailable, "upstream_unavailable")
	ErrUnsupportedMedia    = newError(KindInvalidInput, "unsupported_media")
	ErrMissingUpload       = newError(KindInvalidInput, "missing_upload")
	ErrUploadTooLarge      = newError(KindInvalidInput, "upload_too_large")
)

// Invalid builds an InvalidInput error for a field-level rule violation.
func Invalid(code, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Code: code, Err: fmt.Errorf(format, args...)}
}

// Code returns the reason code of the first *Error in err's chain, or "".
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
