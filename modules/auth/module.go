package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthModule provides identity resolution services.
type AuthModule struct {
	resolver *Resolver
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*AuthModule)(nil)
	_ mono.ServiceProviderModule = (*AuthModule)(nil)
	_ mono.HealthCheckableModule = (*AuthModule)(nil)
)

// NewModule creates a new AuthModule configured from the environment.
// DEV_MODE (default true) selects the permissive development resolver;
// JWT_SECRET_KEY and JWT_ISSUER configure production verification.
func NewModule() *AuthModule {
	permissive := true
	if raw := os.Getenv("DEV_MODE"); raw != "" {
		permissive = strings.EqualFold(raw, "true") || raw == "1"
	}

	var verifier *TokenVerifier
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		verifier = NewTokenVerifier(JWTConfig{
			SecretKey: secret,
			Issuer:    os.Getenv("JWT_ISSUER"),
		})
	}

	return &AuthModule{resolver: NewResolver(permissive, verifier)}
}

// NewModuleWithResolver creates an AuthModule with an injected resolver.
// This constructor enables dependency injection for testing.
func NewModuleWithResolver(resolver *Resolver) *AuthModule {
	return &AuthModule{resolver: resolver}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	if m.resolver.permissive {
		log.Println("[auth] Module started in PERMISSIVE mode (DEV_MODE=true): credentials are not verified")
	} else if m.resolver.verifier == nil {
		log.Println("[auth] Module started in strict mode WITHOUT a configured secret: all credentials will be rejected")
	} else {
		log.Println("[auth] Module started (strict mode)")
	}
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"permissive": m.resolver.permissive,
		},
	}
}

// RegisterServices registers request-reply services in the service
// container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "resolve-identity", json.Unmarshal, json.Marshal, m.handleResolve,
	); err != nil {
		return fmt.Errorf("register resolve-identity: %w", err)
	}

	log.Printf("[auth] Registered services: services.auth.resolve-identity")
	return nil
}

// handleResolve resolves a credential into an identity. Resolution
// failures are returned in the response, not as errors.
func (m *AuthModule) handleResolve(_ context.Context, req ResolveIdentityRequest, _ *mono.Msg) (ResolveIdentityResponse, error) {
	id, err := m.resolver.Resolve(req.Token)
	if err != nil {
		return ResolveIdentityResponse{
			Valid: false,
			Error: "authentication required",
		}, nil
	}

	return ResolveIdentityResponse{
		Valid: true,
		Sub:   id.Subject,
		Email: id.Email,
		Name:  id.Name,
	}, nil
}
