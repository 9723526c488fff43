// Package auth delegates identity verification to Firebase Authentication.
// The backend never issues tokens itself; it only checks bearer ID tokens
// and trusts the uid (and phone number, when present) they resolve to.
package auth

import (
	"context"
	"errors"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Identity is what the rest of the service sees after a token checks out.
type Identity struct {
	UID         string
	PhoneNumber string
}

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier validates a bearer token and resolves the caller's identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// FirebaseVerifier is the production Verifier backed by the Firebase Admin SDK.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier connects to Firebase using the service account key at
// credentialsPath.
func NewFirebaseVerifier(ctx context.Context, credentialsPath string) (*FirebaseVerifier, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id := &Identity{UID: decoded.UID}
	if phone, ok := decoded.Claims["phone_number"].(string); ok {
		id.PhoneNumber = phone
	}
	return id, nil
}
