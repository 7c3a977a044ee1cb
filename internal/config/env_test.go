package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("RELAYDESK_DEBUG", "true")
	t.Setenv("RELAYDESK_CONFIG", "/tmp/c.toml")
	t.Setenv("RELAYDESK_UPDATE_URL", "https://example.com/v")
	t.Setenv("RELAYDESK_DETACHED", "1")

	e, err := ParseEnv()
	require.NoError(t, err)
	assert.True(t, e.Debug)
	assert.True(t, e.Detached)
	assert.Equal(t, "/tmp/c.toml", e.ConfigPath)
	assert.Equal(t, "https://example.com/v", e.UpdateURLOr(DefaultUpdateURL))
}

func TestParseEnv_Invalid(t *testing.T) {
	t.Setenv("RELAYDESK_DEBUG", "maybe")
	_, err := ParseEnv()
	assert.Error(t, err)
}

func TestEnv_UpdateURLOr(t *testing.T) {
	assert.Equal(t, DefaultUpdateURL, Env{}.UpdateURLOr(DefaultUpdateURL))
}
