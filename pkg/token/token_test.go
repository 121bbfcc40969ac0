package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Secret:         "test-secret",
		Issuer:         "kull-test",
		ExpirationMins: 15,
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresSecret(t *testing.T) {
	_, err := NewService(Config{Issuer: "kull-test", ExpirationMins: 15})
	assert.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	svc := newTestService(t)

	raw, err := svc.Sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user:abc"},
		Email:            "a@example.com",
		Role:             "user",
		Community:        "community:c1",
		RoleInCommunity:  "admin",
	})
	require.NoError(t, err)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user:abc", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "community:c1", claims.Community)
	assert.Equal(t, "admin", claims.RoleInCommunity)
	assert.Equal(t, "kull-test", claims.Issuer)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService(Config{Secret: "other-secret", Issuer: "kull-test", ExpirationMins: 15})
	require.NoError(t, err)

	raw, err := svc.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user:abc"}, Role: "user"})
	require.NoError(t, err)

	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(t)
	svc.expiration = -time.Minute

	raw, err := svc.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user:abc"}, Role: "user"})
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Garbage(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongIssuer(t *testing.T) {
	other, err := NewService(Config{Secret: "test-secret", Issuer: "someone-else", ExpirationMins: 15})
	require.NoError(t, err)

	raw, err := other.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user:abc"}, Role: "user"})
	require.NoError(t, err)

	svc := newTestService(t)
	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
