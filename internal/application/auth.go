package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"waybackhome/internal/domain"
	"waybackhome/internal/ports/input"
	"waybackhome/internal/ports/output"
)

var _ input.AuthUseCase = (*AuthGate)(nil)

const bearerPrefix = "Bearer "

// AuthGate composes the identity verifier and the admin directory into a
// single "require admin" check. Rejections are final; the gate never retries.
type AuthGate struct {
	verifier      output.IdentityVerifier
	admins        output.AdminDirectory
	verifyTimeout time.Duration
}

func NewAuthGate(verifier output.IdentityVerifier, admins output.AdminDirectory, verifyTimeout time.Duration) *AuthGate {
	return &AuthGate{
		verifier:      verifier,
		admins:        admins,
		verifyTimeout: verifyTimeout,
	}
}

// RequireAdmin validates an Authorization header value and returns the
// verified admin email.
func (g *AuthGate) RequireAdmin(ctx context.Context, authorization string) (string, error) {
	email, err := g.requireAdmin(ctx, authorization)
	if err != nil {
		log.Warn().Str("reason", domain.Code(err)).Msg("admin access rejected")
		return "", err
	}
	return email, nil
}

func (g *AuthGate) requireAdmin(ctx context.Context, authorization string) (string, error) {
	token, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", domain.ErrMalformedCredential
	}

	if g.verifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.verifyTimeout)
		defer cancel()
	}

	identity, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return "", verificationErr(ctx, err)
	}
	if identity.Email == "" {
		return "", domain.ErrNoEmailClaim
	}

	isAdmin, err := g.admins.IsAdmin(ctx, identity.Email)
	if err != nil {
		if ctx.Err() != nil {
			return "", domain.ErrVerificationFailed.With(err)
		}
		if domain.KindOf(err) == domain.KindInternal {
			return "", domain.ErrUpstreamUnavailable.With(fmt.Errorf("check admin: %w", err))
		}
		return "", err
	}
	if !isAdmin {
		return "", domain.ErrNotAuthorized.With(fmt.Errorf("%s is not an admin", identity.Email))
	}
	return identity.Email, nil
}

// verificationErr keeps credential reasons reported by the verifier and folds
// everything else, timeouts included, into ErrVerificationFailed.
func verificationErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrVerificationFailed.With(err)
	}
	switch domain.KindOf(err) {
	case domain.KindUnauthorized, domain.KindUpstreamUnavailable:
		return err
	}
	return domain.ErrVerificationFailed.With(err)
}
