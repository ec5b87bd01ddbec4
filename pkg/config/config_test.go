package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("IMMPRES_CONFIG_PATH", t.TempDir()) // no file present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.APIResourceListLimitMax)
	assert.Equal(t, 604800, cfg.SessionTokenTTL)
	assert.False(t, cfg.VerifySignatureOnLookup)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "default", cfg.Source("session_token_ttl"))
	assert.NoError(t, cfg.Validate())
}

func TestFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	yml := []byte("session_token_ttl: 3600\nbcrypt_cost: 12\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), yml, 0o644))

	t.Setenv("IMMPRES_CONFIG_PATH", dir)
	t.Setenv("IMMPRES_BCRYPT_COST", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3600, cfg.SessionTokenTTL)
	assert.Equal(t, "file", cfg.Source("session_token_ttl"))

	// env wins over file
	assert.Equal(t, 14, cfg.BcryptCost)
	assert.Equal(t, "environment", cfg.Source("bcrypt_cost"))
}

func TestBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not yaml"), 0o644))
	t.Setenv("IMMPRES_CONFIG_PATH", dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestReloadUpdatesHeldHandle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("bcrypt_cost: 5\n"), 0o644))
	t.Setenv("IMMPRES_CONFIG_PATH", dir)

	configMu.Lock()
	globalConfig = nil
	configMu.Unlock()
	t.Cleanup(func() {
		configMu.Lock()
		globalConfig = nil
		configMu.Unlock()
	})

	held := Get()
	assert.Equal(t, 5, held.BcryptCost)

	// A handle captured at boot must observe values reloaded later.
	require.NoError(t, os.WriteFile(path, []byte("bcrypt_cost: 12\nsession_token_ttl: 3600\n"), 0o644))
	require.NoError(t, Reload())

	assert.Equal(t, 12, held.BcryptCost)
	assert.Equal(t, 3600, held.SessionTokenTTL)
	assert.Equal(t, "file", held.Source("bcrypt_cost"))
	assert.Same(t, held, Get())
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	assert.NoError(t, cfg.Validate())

	cfg.TrustedProxies = []string{"not-a-cidr"}
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.BcryptCost = 99
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.SessionTokenTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.1"))
	assert.False(t, cfg.IsTrustedProxy("172.16.0.1"))
	assert.False(t, cfg.IsTrustedProxy("garbage"))
}

func TestFormatText(t *testing.T) {
	t.Setenv("IMMPRES_CONFIG_PATH", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)

	out := cfg.FormatText()
	assert.Contains(t, out, "session_token_ttl")
	assert.Contains(t, out, "verify_signature_on_lookup")
	assert.Contains(t, out, "default")
}
