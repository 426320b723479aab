package output

import "context"

// Identity is the verified subject of a credential.
type Identity struct {
	Subject string
	Email   string
}

// IdentityVerifier decodes a bearer token into a verified identity.
// Failures are reported as domain credential errors.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RevocationList reports whether a token id has been revoked.
type RevocationList interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}
