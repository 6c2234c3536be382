package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *JWTService {
	return NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testJWTService()

	access, refresh, err := svc.GenerateTokenPair("user-1", "escort")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "escort", claims.Role)
	assert.Equal(t, "access", claims.Type)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	access, _, err := testJWTService().GenerateTokenPair("user-1", "client")
	require.NoError(t, err)

	other := NewJWTService("different-secret", 15*time.Minute, 7*24*time.Hour)
	_, err = other.ValidateToken(access)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, 7*24*time.Hour)

	access, _, err := svc.GenerateTokenPair("user-1", "client")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	svc := testJWTService()

	_, refresh, err := svc.GenerateTokenPair("user-1", "agency")
	require.NoError(t, err)

	access, err := svc.RefreshAccessToken(refresh)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "agency", claims.Role)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := testJWTService()

	access, _, err := svc.GenerateTokenPair("user-1", "client")
	require.NoError(t, err)

	_, err = svc.RefreshAccessToken(access)
	assert.Error(t, err)
}
