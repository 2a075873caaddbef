package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(Identity{
		UserID:     "u-1",
		MembNo:     "M-100",
		Name:       "Alice",
		Role:       "CLIENT",
		FirstLogin: true,
	}, testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "M-100", claims.MembNo)
	assert.Equal(t, "CLIENT", claims.Role)
	assert.True(t, claims.FirstLogin)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(Identity{UserID: "u-1"}, testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	token, err := GenerateAccessToken(Identity{UserID: "u-1"}, testSecret, -5)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
