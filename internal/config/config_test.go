package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".substra", "config.yaml")

	cfg := &Config{Profiles: map[string]Profile{}}
	cfg.SetProfile("owkin", Profile{
		URL:      "https://substra-backend.owkin.com",
		Username: "node-1",
		Password: "p@sswr0d44",
		Insecure: true,
	})
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Profiles, loaded.Profiles)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Profiles)
}

func TestProfileUnknown(t *testing.T) {
	cfg := &Config{Profiles: map[string]Profile{}}
	_, err := cfg.Profile(context.Background(), "owkin")
	require.ErrorContains(t, err, `profile "owkin" not found`)
}

func TestProfileEnvOverrides(t *testing.T) {
	t.Setenv("SUBSTRA_URL", "http://localhost:8000")
	t.Setenv("SUBSTRA_USERNAME", "env-user")

	// Environment alone is enough, no profile needs to exist.
	cfg := &Config{Profiles: map[string]Profile{}}
	p, err := cfg.Profile(context.Background(), DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", p.URL)
	assert.Equal(t, "env-user", p.Username)

	// Environment wins over file values.
	cfg.SetProfile(DefaultProfile, Profile{URL: "https://other.example.com", Username: "file-user"})
	p, err = cfg.Profile(context.Background(), DefaultProfile)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", p.URL)
	assert.Equal(t, "env-user", p.Username)
}

func TestProfileValidation(t *testing.T) {
	cfg := &Config{Profiles: map[string]Profile{
		"broken": {URL: "not a url"},
	}}
	_, err := cfg.Profile(context.Background(), "broken")
	require.ErrorContains(t, err, "invalid")
}
