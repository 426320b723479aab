package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"waybackhome/internal/domain"
	"waybackhome/internal/ports/output"
)

var _ output.IdentityVerifier = (*JWTVerifier)(nil)

// Claims is the token payload the verifier understands.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 or RS256 bearer tokens and consults a
// revocation list keyed by the token id (jti).
type JWTVerifier struct {
	keyFunc jwt.Keyfunc
	parser  *jwt.Parser
	revoked output.RevocationList
}

type Options struct {
	HMACSecret    string
	PublicKeyFile string
	Issuer        string
	Audience      string
}

// NewJWTVerifier builds a verifier from opts. Exactly one of HMACSecret and
// PublicKeyFile must be set. revoked may be nil.
func NewJWTVerifier(opts Options, revoked output.RevocationList) (*JWTVerifier, error) {
	var (
		keyFunc jwt.Keyfunc
		method  string
	)
	switch {
	case opts.HMACSecret != "" && opts.PublicKeyFile != "":
		return nil, errors.New("identity: set either an HMAC secret or a public key, not both")
	case opts.HMACSecret != "":
		secret := []byte(opts.HMACSecret)
		method = jwt.SigningMethodHS256.Alg()
		keyFunc = func(*jwt.Token) (any, error) { return secret, nil }
	case opts.PublicKeyFile != "":
		key, err := loadPublicKey(opts.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		method = jwt.SigningMethodRS256.Alg()
		keyFunc = func(*jwt.Token) (any, error) { return key, nil }
	default:
		return nil, errors.New("identity: no verification key configured")
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method}),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	return &JWTVerifier{
		keyFunc: keyFunc,
		parser:  jwt.NewParser(parserOpts...),
		revoked: revoked,
	}, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return key, nil
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (output.Identity, error) {
	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(token, claims, v.keyFunc); err != nil {
		return output.Identity{}, parseErr(err)
	}

	if v.revoked != nil && claims.ID != "" {
		revoked, err := v.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return output.Identity{}, err
		}
		if revoked {
			return output.Identity{}, domain.ErrRevokedCredential
		}
	}

	if claims.Email == "" {
		return output.Identity{}, domain.ErrNoEmailClaim
	}
	return output.Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

func parseErr(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrExpiredCredential.With(err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return domain.ErrInvalidCredential.With(err)
	default:
		return domain.ErrVerificationFailed.With(err)
	}
}
