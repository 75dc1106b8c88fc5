package auth

// ResolveIdentityRequest represents an identity resolution request. An
// empty token means no credential was presented.
type ResolveIdentityRequest struct {
	Token string `json:"token"`
}

// ResolveIdentityResponse represents an identity resolution response.
// Resolution failures are reported in the response rather than as
// transport errors.
type ResolveIdentityResponse struct {
	Valid bool   `json:"valid"`
	Sub   string `json:"sub,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error,omitempty"`
}
