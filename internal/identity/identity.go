// Package identity delegates caller authentication to an external identity
// provider. The server never manages sessions or credentials itself; it only
// verifies bearer tokens and reads the identity they carry.
package identity

import "context"

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	UID     string
	Name    string
	Email   string
	Picture string
}

// DisplayName returns the name to stamp on authored records, falling back
// to the email address the way the client expects.
func (id Identity) DisplayName() string {
	if id.Name != "" {
		return id.Name
	}
	return id.Email
}

// Verifier checks a raw bearer token against the external identity provider.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
