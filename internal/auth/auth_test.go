package auth

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcert-dashboard-go/pkg/model"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestGenerateJWTClaims(t *testing.T) {
	s := NewAuthService(nil, "test-secret", "test-key")
	regionID := 4
	user := &model.User{ID: 12, Login: "andijan", Role: model.RoleRegion, RegionID: &regionID}

	signed, err := s.GenerateJWT(user)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(12), claims["user_id"])
	assert.Equal(t, "andijan", claims["login"])
	assert.Equal(t, model.RoleRegion, claims["role"])
	assert.Equal(t, float64(4), claims["region_id"])
}

func TestGenerateJWTOmitsRegionForAdmin(t *testing.T) {
	s := NewAuthService(nil, "test-secret", "test-key")
	user := &model.User{ID: 1, Login: "admin", Role: model.RoleAdmin}

	signed, err := s.GenerateJWT(user)
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	_, hasRegion := claims["region_id"]
	assert.False(t, hasRegion)
}

func TestTOTPSecretRoundTrip(t *testing.T) {
	secret, url, err := GenerateTOTPSecret("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, url, "otpauth://totp/")

	encrypted, err := EncryptTOTPSecret(secret, "encryption-key")
	require.NoError(t, err)
	assert.NotEqual(t, secret, encrypted)

	decrypted, err := DecryptTOTPSecret(encrypted, "encryption-key")
	require.NoError(t, err)
	assert.Equal(t, secret, decrypted)

	// Wrong key fails authentication instead of yielding garbage.
	_, err = DecryptTOTPSecret(encrypted, "other-key")
	assert.Error(t, err)
}
