package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	t.Setenv("TEST_STATUSCAKE_USER", "from-env")

	g := Chain{
		Map{KeyAPIKeyColon: "colon"},
		Env{KeyUsername: "TEST_STATUSCAKE_USER"},
	}

	v, ok := Lookup(g, KeyAPIKey, KeyAPIKeyColon)
	assert.True(t, ok)
	assert.Equal(t, "colon", v)

	v, ok = Lookup(g, KeyUsername, KeyUsernameColon)
	assert.True(t, ok)
	assert.Equal(t, "from-env", v)

	v, ok = Env{KeyUsername: "TEST_STATUSCAKE_USER"}.Get(KeyUsernameColon)
	assert.True(t, ok)
	assert.Equal(t, "from-env", v)

	_, ok = Lookup(nil, KeyAPIKey)
	assert.False(t, ok)

	_, ok = Lookup(Map{KeyAPIKey: ""}, KeyAPIKey)
	assert.False(t, ok)
}

func TestViperGetter(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
statuscake:
  api_key: nested-key
  username: toto
`)))

	g := NewViper(v)

	key, ok := Lookup(g, KeyAPIKey, KeyAPIKeyColon)
	assert.True(t, ok)
	assert.Equal(t, "nested-key", key)

	user, ok := g.Get(KeyUsernameColon)
	assert.True(t, ok)
	assert.Equal(t, "toto", user)

	_, ok = g.Get("statuscake.missing")
	assert.False(t, ok)
}

func TestLoadSettings(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *s)

	v.Set("settings.output", "JSON")
	v.Set("settings.timeout", "5s")
	s, err = LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, s.Output)
	assert.Equal(t, 5*time.Second, s.Timeout)

	v.Set("settings.output", "yaml")
	v.Set("settings.base_url", "not a url")
	_, err = LoadSettings(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Output")
	assert.Contains(t, err.Error(), "BaseURL")
}
