package encrypt

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestAESRoundTrip(t *testing.T) {
	enc, err := AESEncrypt(testKey, "whsec_s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "whsec_s3cret", enc)

	dec, err := AESDecrypt(testKey, enc)
	require.NoError(t, err)
	assert.Equal(t, "whsec_s3cret", dec)
}

func TestAESDecryptRejectsWrongKey(t *testing.T) {
	enc, err := AESEncrypt(testKey, "whsec_s3cret")
	require.NoError(t, err)

	_, err = AESDecrypt("fedcba9876543210fedcba9876543210", enc)
	assert.Error(t, err)
}

func TestAESDecryptRejectsShortCiphertext(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("tiny"))
	_, err := AESDecrypt(testKey, short)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}
