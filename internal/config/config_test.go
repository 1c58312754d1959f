package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", s.AI.Model)
	assert.Equal(t, 2000, s.Autosave.DelayMS)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, "console", s.Log.Format)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("ai:\n  model: o4-mini\n  base_url: https://llm.internal/v1\nautosave:\n  delay_ms: 500\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "o4-mini", s.AI.Model)
	assert.Equal(t, "https://llm.internal/v1", s.AI.BaseURL)
	assert.Equal(t, 500, s.Autosave.DelayMS)
	// Untouched sections keep their defaults.
	assert.Equal(t, "warn", s.Log.Level)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  model: from-file\n"), 0o600))

	t.Setenv("APPMAKER_AI_MODEL", "from-env")
	t.Setenv("APPMAKER_LOG_LEVEL", "debug")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", s.AI.Model)
	assert.Equal(t, "debug", s.Log.Level)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	s := Defaults()
	s.AI.Key = EncodeSecret("sk-secret")
	s.Sync.GitHubToken = EncodeSecret("ghp_token")
	s.Log.Format = "json"
	require.NoError(t, Save(path, &s))

	// Credentials never land in the file as plaintext.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-secret")
	assert.NotContains(t, string(raw), "ghp_token")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", got.AIKey())
	assert.Equal(t, "ghp_token", got.GitHubToken())
	assert.Equal(t, "json", got.Log.Format)
}

func TestSecretEncodingRoundTrip(t *testing.T) {
	enc := EncodeSecret("hello")
	assert.NotEqual(t, "hello", enc)
	assert.Equal(t, "hello", DecodeSecret(enc))

	// Plain values pass through so env-provided tokens work unencoded.
	assert.Equal(t, "plaintext", DecodeSecret("plaintext"))
	assert.Equal(t, "", DecodeSecret(""))
}

func TestAutosaveDelay(t *testing.T) {
	s := Settings{Autosave: AutosaveSettings{DelayMS: 150}}
	assert.Equal(t, 150*time.Millisecond, s.AutosaveDelay())

	s.Autosave.DelayMS = 0
	assert.Equal(t, 2*time.Second, s.AutosaveDelay())
}
