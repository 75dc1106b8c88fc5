package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// JWTConfig holds token verification configuration.
type JWTConfig struct {
	SecretKey     string
	Issuer        string
	TokenDuration time.Duration
}

// JWTClaims represents the claims carried by an identity token.
type JWTClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 identity tokens issued by the configured
// provider.
type TokenVerifier struct {
	config JWTConfig
}

// NewTokenVerifier creates a TokenVerifier with the given configuration.
func NewTokenVerifier(config JWTConfig) *TokenVerifier {
	if config.TokenDuration <= 0 {
		config.TokenDuration = 15 * time.Minute
	}
	return &TokenVerifier{config: config}
}

// Verify validates the token signature and claims and returns the claims
// if valid. Tokens without a subject are rejected.
func (v *TokenVerifier) Verify(tokenString string) (*JWTClaims, error) {
	opts := []jwt.ParserOption{}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.config.SecretKey), nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Generate signs a token for the given subject. Used by tests and local
// tooling to mint credentials against the configured secret.
func (v *TokenVerifier) Generate(subject, email, name string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.config.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(v.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(v.config.SecretKey))
}
