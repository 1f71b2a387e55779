package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer(Options{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    48 * time.Hour,
	})
	require.NoError(t, err)
	return iss
}

func TestIssuer_RoundTrip(t *testing.T) {
	iss := newTestIssuer(t)
	ctx := context.Background()

	access, err := iss.IssueAccess("user-1")
	require.NoError(t, err)
	claims, err := iss.Verify(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, access, claims.Token)

	refresh, err := iss.IssueRefresh("user-1")
	require.NoError(t, err)
	claims, err = iss.VerifyRefresh(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestIssuer_TokensAreUnique(t *testing.T) {
	iss := newTestIssuer(t)
	a, _ := iss.IssueRefresh("user-1")
	b, _ := iss.IssueRefresh("user-1")
	assert.NotEqual(t, a, b, "jti should make every token distinct")
}

func TestIssuer_SecretsAreNotInterchangeable(t *testing.T) {
	iss := newTestIssuer(t)
	ctx := context.Background()

	refresh, _ := iss.IssueRefresh("user-1")
	_, err := iss.Verify(ctx, refresh)
	assert.Error(t, err, "refresh token must not pass as access token")

	access, _ := iss.IssueAccess("user-1")
	_, err = iss.VerifyRefresh(ctx, access)
	assert.Error(t, err, "access token must not pass as refresh token")
}

func TestIssuer_Expired(t *testing.T) {
	iss := newTestIssuer(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return base }

	access, err := iss.IssueAccess("user-1")
	require.NoError(t, err)

	iss.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = iss.Verify(context.Background(), access)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))
}

func TestIssuer_RejectsGarbage(t *testing.T) {
	iss := newTestIssuer(t)
	_, err := iss.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenEmpty)
	_, err = iss.Verify(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}

func TestNewIssuer_RequiresSecrets(t *testing.T) {
	_, err := NewIssuer(Options{AccessSecret: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
