package authguard

import (
	"context"
	"errors"
	"fmt"

	"github.com/processlens/gateway/pkg/token"
)

// SessionVerifier verifies locally-signed session tokens issued by the
// identity provider's token service.
type SessionVerifier struct {
	tokens *token.Service
}

// NewSessionVerifier creates a TokenVerifier backed by a token.Service.
func NewSessionVerifier(tokens *token.Service) *SessionVerifier {
	if tokens == nil {
		panic("authguard: nil token service")
	}
	return &SessionVerifier{tokens: tokens}
}

// Verify parses the token and returns its subject as the user id. Expired
// tokens belong to a known identity whose session lapsed, so they map to
// ErrTokenUnavailable rather than ErrUnauthenticated.
func (v *SessionVerifier) Verify(ctx context.Context, raw string) (string, error) {
	var claims token.SessionClaims
	if err := v.tokens.Parse(raw, &claims); err != nil {
		if errors.Is(err, token.ErrExpiredToken) {
			return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}
	return claims.Subject, nil
}
