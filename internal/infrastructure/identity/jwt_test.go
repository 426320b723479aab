package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybackhome/internal/domain"
	"waybackhome/internal/infrastructure/memory"
)

const secret = "test-secret"

func sign(t *testing.T, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func validClaims(email string) Claims {
	return Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			Subject:   "user-1",
			Issuer:    "mission-control",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestJWTVerifier_Valid(t *testing.T) {
	v, err := NewJWTVerifier(Options{HMACSecret: secret, Issuer: "mission-control"}, nil)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), sign(t, validClaims("alice@example.com")))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, "user-1", id.Subject)
}

func TestJWTVerifier_Failures(t *testing.T) {
	revoked := memory.NewRevocationList()
	require.NoError(t, revoked.Revoke(context.Background(), "jti-revoked"))
	v, err := NewJWTVerifier(Options{HMACSecret: secret, Issuer: "mission-control"}, revoked)
	require.NoError(t, err)

	expired := validClaims("a@x.com")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims("a@x.com")
	wrongIssuer.Issuer = "someone-else"

	noExpiry := validClaims("a@x.com")
	noExpiry.ExpiresAt = nil

	revokedClaims := validClaims("a@x.com")
	revokedClaims.ID = "jti-revoked"

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("a@x.com")).SignedString([]byte("other"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-jwt", domain.ErrInvalidCredential},
		{"bad signature", otherKey, domain.ErrInvalidCredential},
		{"expired", sign(t, expired), domain.ErrExpiredCredential},
		{"wrong issuer", sign(t, wrongIssuer), domain.ErrInvalidCredential},
		{"missing exp", sign(t, noExpiry), domain.ErrInvalidCredential},
		{"revoked", sign(t, revokedClaims), domain.ErrRevokedCredential},
		{"no email", sign(t, validClaims("")), domain.ErrNoEmailClaim},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
		})
	}
}

func TestJWTVerifier_RejectsAlgorithmSwitch(t *testing.T) {
	v, err := NewJWTVerifier(Options{HMACSecret: secret}, nil)
	require.NoError(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, validClaims("a@x.com")).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), tok)
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestJWTVerifier_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pub.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

	v, err := NewJWTVerifier(Options{PublicKeyFile: path, Audience: "waybackhome"}, nil)
	require.NoError(t, err)

	claims := validClaims("ops@example.com")
	claims.Audience = jwt.ClaimStrings{"waybackhome"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", id.Email)
}

func TestNewJWTVerifier_Config(t *testing.T) {
	_, err := NewJWTVerifier(Options{}, nil)
	assert.Error(t, err)
	_, err = NewJWTVerifier(Options{HMACSecret: "a", PublicKeyFile: "b"}, nil)
	assert.Error(t, err)
	_, err = NewJWTVerifier(Options{PublicKeyFile: filepath.Join(t.TempDir(), "missing.pem")}, nil)
	assert.Error(t, err)
}
