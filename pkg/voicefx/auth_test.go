package voicefx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "a-test-secret-of-adequate-length"

func TestControlToken_RoundTrip(t *testing.T) {
	token, err := GenerateControlToken(testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, ValidateControlToken(testSecret, token))
}

func TestControlToken_WrongSecretRejected(t *testing.T) {
	token, err := GenerateControlToken(testSecret)
	require.NoError(t, err)

	err = ValidateControlToken("a-different-secret-also-longish", token)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeAuthFailed))
}

func TestControlToken_ShortSecretRefused(t *testing.T) {
	_, err := GenerateControlToken("short")
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeAuthFailed))
}

func TestControlToken_GarbageRejected(t *testing.T) {
	for _, token := range []string{"", "garbage", "aaa.bbb.ccc"} {
		err := ValidateControlToken(testSecret, token)
		assert.Error(t, err, "token %q", token)
	}
}
