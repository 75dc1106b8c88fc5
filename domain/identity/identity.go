package identity

// Identity is a validated user identity extracted from a bearer credential.
type Identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}
