package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-management-api/domain/identity"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface other modules use to resolve identities.
type AuthPort interface {
	ResolveIdentity(ctx context.Context, token string) (*identity.Identity, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// Compile-time interface check.
var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

// ResolveIdentity resolves a bearer credential into a validated identity.
// Failed resolution surfaces as ErrUnauthenticated.
func (a *AuthAdapter) ResolveIdentity(ctx context.Context, token string) (*identity.Identity, error) {
	req := ResolveIdentityRequest{Token: token}
	var resp ResolveIdentityResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"resolve-identity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("resolve-identity request failed: %w", err)
	}

	if !resp.Valid {
		return nil, ErrUnauthenticated
	}

	return &identity.Identity{
		Subject: resp.Sub,
		Email:   resp.Email,
		Name:    resp.Name,
	}, nil
}
