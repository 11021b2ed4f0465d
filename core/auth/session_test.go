package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenPairValid(t *testing.T) {
	assert.True(t, TokenPair{AccessToken: "a", RefreshToken: "r"}.Valid())
	assert.False(t, TokenPair{AccessToken: "a"}.Valid(), "只有访问令牌不构成会话")
	assert.False(t, TokenPair{RefreshToken: "r"}.Valid())
	assert.False(t, TokenPair{}.Valid())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "unknown", State(99).String())
}
