package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Content.StoryTTL)
	assert.Equal(t, 20, cfg.Content.FeedPageSize)
	assert.False(t, cfg.Content.EnforcePrivatePosts)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("database:\n  driver: sqlite\n  dsn: \"file::memory:\"\ncontent:\n  story_ttl: 12h\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("ONLINE_SERVER_PORT", "9090")
	t.Setenv("ONLINE_CONTENT_ENFORCE_PRIVATE_POSTS", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 12*time.Hour, cfg.Content.StoryTTL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Content.EnforcePrivatePosts)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql"},
		JWT:      JWTConfig{Secret: "s"},
		Content:  ContentConfig{StoryTTL: time.Hour, FeedPageSize: 20},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, cfg.Validate())
}
