package introspection

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestLocalVerifierValidToken(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	token := signToken(t, "topsecret", jwt.MapClaims{
		"scope":     "profile user_update",
		"username":  "alice",
		"client_id": "cli-1",
		"sub":       "id-alice",
		"exp":       exp.Unix(),
	})

	v := NewLocalVerifier("topsecret")
	res, err := v.Introspect(context.Background(), token)
	require.NoError(t, err)
	require.True(t, res.Active)
	require.Equal(t, "profile user_update", res.Scope)
	require.Equal(t, "alice", res.Username)
	require.Equal(t, "cli-1", res.ClientID)
	require.Equal(t, "id-alice", res.Sub)
	require.Equal(t, exp.Unix(), res.Exp)
}

func TestLocalVerifierWrongSecret(t *testing.T) {
	t.Parallel()

	token := signToken(t, "topsecret", jwt.MapClaims{"username": "alice"})

	v := NewLocalVerifier("othersecret")
	res, err := v.Introspect(context.Background(), token)
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestLocalVerifierExpiredToken(t *testing.T) {
	t.Parallel()

	token := signToken(t, "topsecret", jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})

	v := NewLocalVerifier("topsecret")
	res, err := v.Introspect(context.Background(), token)
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestLocalVerifierGarbage(t *testing.T) {
	t.Parallel()

	v := NewLocalVerifier("topsecret")
	res, err := v.Introspect(context.Background(), "not-a-jwt")
	require.NoError(t, err)
	require.False(t, res.Active)
}

func TestLocalVerifierClientIDFromAudience(t *testing.T) {
	t.Parallel()

	token := signToken(t, "topsecret", jwt.MapClaims{
		"username": "alice",
		"aud":      "aud-client",
	})

	v := NewLocalVerifier("topsecret")
	res, err := v.Introspect(context.Background(), token)
	require.NoError(t, err)
	require.True(t, res.Active)
	require.Equal(t, "aud-client", res.ClientID)
}
