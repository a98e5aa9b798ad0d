package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTPairRoundTrip(t *testing.T) {
	InitSecrets("access-secret", "refresh-secret")

	pair, err := GeneratePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)

	renewed, err := Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err = ParseAccess(renewed.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)

	// access/refresh 两把密钥不互通
	_, err = ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
	_, err = Refresh(pair.AccessToken)
	assert.Error(t, err)
}
