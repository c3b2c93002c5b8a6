package security

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"relief-coordination-backend/internal/domain"
)

// IdentityVerifier resolves an externally issued identity token into a
// session. The production implementation verifies Firebase ID tokens; the
// local token manager covers the session tokens we mint ourselves.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Session, error)
}

type firebaseVerifier struct {
	auth *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) IdentityVerifier {
	return &firebaseVerifier{auth: client}
}

func (v *firebaseVerifier) Verify(ctx context.Context, idToken string) (*domain.Session, error) {
	tok, err := v.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role := domain.RoleUser
	if r, ok := tok.Claims["role"].(string); ok && r == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}
	email, _ := tok.Claims["email"].(string)
	return &domain.Session{UID: tok.UID, Email: email, Role: role}, nil
}

// localVerifier accepts the session tokens this service mints itself. It
// backs local development, where no Firebase project is wired.
type localVerifier struct {
	tokens TokenManager
}

func NewLocalVerifier(tokens TokenManager) IdentityVerifier {
	return &localVerifier{tokens: tokens}
}

func (v *localVerifier) Verify(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := v.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	session := claims.Session()
	return &session, nil
}
