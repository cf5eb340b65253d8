package authguard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/processlens/gateway/pkg/authguard"
	"github.com/processlens/gateway/pkg/token"
)

type verifierFunc func(ctx context.Context, token string) (string, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

func newRequest(authHeader string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/upload", nil)
	if authHeader != "" {
		r.Header.Set("Authorization", authHeader)
	}
	return r
}

func TestGuardAuthenticate(t *testing.T) {
	t.Parallel()

	okVerifier := verifierFunc(func(_ context.Context, tok string) (string, error) {
		return "user-7", nil
	})

	t.Run("valid bearer token", func(t *testing.T) {
		t.Parallel()
		guard := authguard.New(okVerifier)
		id, err := guard.Authenticate(newRequest("Bearer session-token"))
		require.NoError(t, err)
		assert.Equal(t, "user-7", id.UserID)
		assert.Equal(t, "session-token", id.Token)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		guard := authguard.New(okVerifier)
		_, err := guard.Authenticate(newRequest(""))
		assert.ErrorIs(t, err, authguard.ErrUnauthenticated)
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()
		guard := authguard.New(okVerifier)
		for _, h := range []string{"Bearer", "Basic dXNlcjpwYXNz", "Bearer "} {
			_, err := guard.Authenticate(newRequest(h))
			assert.ErrorIs(t, err, authguard.ErrUnauthenticated, "header %q", h)
		}
	})

	t.Run("expired session maps to token unavailable", func(t *testing.T) {
		t.Parallel()
		guard := authguard.New(verifierFunc(func(context.Context, string) (string, error) {
			return "", authguard.ErrTokenUnavailable
		}))
		_, err := guard.Authenticate(newRequest("Bearer stale"))
		assert.ErrorIs(t, err, authguard.ErrTokenUnavailable)
	})

	t.Run("unclassified verifier error fails closed", func(t *testing.T) {
		t.Parallel()
		guard := authguard.New(verifierFunc(func(context.Context, string) (string, error) {
			return "", errors.New("provider exploded")
		}))
		_, err := guard.Authenticate(newRequest("Bearer anything"))
		assert.ErrorIs(t, err, authguard.ErrUnauthenticated)
	})

	t.Run("empty user id fails closed", func(t *testing.T) {
		t.Parallel()
		guard := authguard.New(verifierFunc(func(context.Context, string) (string, error) {
			return "", nil
		}))
		_, err := guard.Authenticate(newRequest("Bearer anything"))
		assert.ErrorIs(t, err, authguard.ErrUnauthenticated)
	})
}

func TestSessionVerifier(t *testing.T) {
	t.Parallel()

	svc, err := token.NewService([]byte("test-signing-key-32-bytes-long!!"))
	require.NoError(t, err)
	verifier := authguard.NewSessionVerifier(svc)

	t.Run("valid token returns subject", func(t *testing.T) {
		t.Parallel()
		raw, err := svc.Generate(token.SessionClaims{
			Subject:   "user-42",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)

		userID, err := verifier.Verify(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, "user-42", userID)
	})

	t.Run("expired token is token unavailable", func(t *testing.T) {
		t.Parallel()
		raw, err := svc.Generate(token.SessionClaims{
			Subject:   "user-42",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, authguard.ErrTokenUnavailable)
	})

	t.Run("garbage token is unauthenticated", func(t *testing.T) {
		t.Parallel()
		_, err := verifier.Verify(context.Background(), "garbage")
		assert.ErrorIs(t, err, authguard.ErrUnauthenticated)
	})

	t.Run("token without subject is unauthenticated", func(t *testing.T) {
		t.Parallel()
		raw, err := svc.Generate(token.SessionClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()})
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), raw)
		assert.ErrorIs(t, err, authguard.ErrUnauthenticated)
	})
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	ctx := authguard.WithIdentity(context.Background(), authguard.Identity{UserID: "u1", Token: "t1"})
	id, ok := authguard.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)

	_, ok = authguard.IdentityFromContext(context.Background())
	assert.False(t, ok)
}
