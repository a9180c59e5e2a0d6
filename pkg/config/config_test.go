package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Auth.Headless)
	assert.Equal(t, 30*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, 2, cfg.Auth.MaxModalRetries)
	assert.True(t, cfg.Auth.PersistSession)
	assert.Equal(t, 10, cfg.Scrape.MaxPages)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  headless: false
  timeout: 10s
  max_modal_retries: 5
scrape:
  score_threshold: 4
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Auth.Headless)
	assert.Equal(t, 10*time.Second, cfg.Auth.Timeout)
	assert.Equal(t, 5, cfg.Auth.MaxModalRetries)
	assert.Equal(t, 4, cfg.Scrape.ScoreThreshold)
	// Untouched sections keep defaults
	assert.Equal(t, 10, cfg.Scrape.MaxPages)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth: [not a map"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNewCredentials(t *testing.T) {
	creds, err := NewCredentials("V12345678", "secret", "madre:Maria")
	require.NoError(t, err)

	assert.Equal(t, "V12345678", creds.Identity())
	assert.Equal(t, "secret", creds.Secret())
	assert.Equal(t, "madre:Maria", creds.SecurityAnswers())
}

func TestNewCredentialsValidation(t *testing.T) {
	_, err := NewCredentials("", "secret", "")
	assert.Error(t, err)

	_, err = NewCredentials("user", "", "")
	assert.Error(t, err)
}

func TestCredentialsStringMasksSecrets(t *testing.T) {
	creds, err := NewCredentials("V12345678", "hunter2", "madre:Maria")
	require.NoError(t, err)

	s := creds.String()
	assert.NotContains(t, s, "hunter2")
	assert.NotContains(t, s, "12345678")
	assert.NotContains(t, s, "Maria")
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("BANKER_USERNAME", "V11223344")
	t.Setenv("BANKER_PASSWORD", "pw")
	t.Setenv("BANKER_SECURITY_QUESTIONS", "madre:Ana")

	creds, err := CredentialsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "V11223344", creds.Identity())

	t.Setenv("BANKER_PASSWORD", "")
	_, err = CredentialsFromEnv()
	assert.Error(t, err)
}
