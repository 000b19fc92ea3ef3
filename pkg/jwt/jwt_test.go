package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, expireAt, err := GenerateToken("secret", 42, "pm", true, 72)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), expireAt, time.Minute)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "pm", claims.Role)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "sprintline", claims.Issuer)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("secret", 1, "rd", false, 1)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateToken("secret", 1, "rd", false, -1)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}
