package auth

import "context"

// StaticVerifier resolves tokens from a fixed in-memory table. It backs the
// insecure local-development mode and the handler tests.
type StaticVerifier struct {
	Tokens map[string]Identity
}

func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{Tokens: make(map[string]Identity)}
}

// Add registers a token that resolves to the given identity.
func (v *StaticVerifier) Add(token string, id Identity) {
	v.Tokens[token] = id
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	id, ok := v.Tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	return &id, nil
}

// PassthroughVerifier treats the bearer token itself as the uid. Only wired
// up when AUTH_MODE=insecure, for local development without Firebase
// credentials.
type PassthroughVerifier struct{}

func (PassthroughVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{UID: token}, nil
}
