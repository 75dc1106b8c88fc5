package auth

import (
	"errors"

	"github.com/example/task-management-api/domain/identity"
)

// ErrUnauthenticated is returned when no valid credential is presented.
var ErrUnauthenticated = errors.New("authentication required")

// Synthetic identity returned in permissive development mode. This code
// path exists only to unblock local testing without an identity provider
// and is unreachable when DEV_MODE=false.
var devIdentity = identity.Identity{
	Subject: "dev-user-001",
	Email:   "dev@example.com",
	Name:    "Dev User",
}

// Resolver extracts a validated identity from a bearer credential. It is
// stateless and mutates nothing.
type Resolver struct {
	permissive bool
	verifier   *TokenVerifier
}

// NewResolver creates a Resolver. A nil verifier in strict mode means no
// identity provider is configured: every credential is rejected
// (fail closed).
func NewResolver(permissive bool, verifier *TokenVerifier) *Resolver {
	return &Resolver{permissive: permissive, verifier: verifier}
}

// Resolve validates the credential and returns the caller's identity.
// An empty token means no credential was presented.
func (r *Resolver) Resolve(token string) (identity.Identity, error) {
	if r.permissive {
		// Development mode: any caller, with or without a token, maps
		// onto the fixed synthetic identity.
		return devIdentity, nil
	}

	if token == "" {
		return identity.Identity{}, ErrUnauthenticated
	}
	if r.verifier == nil {
		return identity.Identity{}, ErrUnauthenticated
	}

	claims, err := r.verifier.Verify(token)
	if err != nil {
		return identity.Identity{}, ErrUnauthenticated
	}

	return identity.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
