package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noDotenv points Load at a file that does not exist.
func noDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "PLAY_TOKEN_TTL", "THEME", "SESSION_IDLE", "NATS_URL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	c, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, 2*time.Hour, c.TokenTTL)
	assert.Equal(t, 30*time.Minute, c.SessionIdle)
	assert.Equal(t, "christmas", c.Theme)
	assert.Empty(t, c.NATSURL)
	assert.Equal(t, zerolog.InfoLevel, c.Level())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PLAY_TOKEN_TTL", "15m")
	t.Setenv("THEME", "fruit")
	t.Setenv("NATS_URL", "nats://broker:4222")

	c, err := Load(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, zerolog.DebugLevel, c.Level())
	assert.Equal(t, 15*time.Minute, c.TokenTTL)
	assert.Equal(t, "fruit", c.Theme)
	assert.Equal(t, "nats://broker:4222", c.NATSURL)
}

func TestLoadReadsDotenv(t *testing.T) {
	t.Setenv("DAILY_SALT", "")
	os.Unsetenv("DAILY_SALT")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DAILY_SALT=from_dotenv\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", c.DailySalt)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("PLAY_TOKEN_TTL", "soon")
	_, err := Load(noDotenv(t))
	assert.Error(t, err)

	t.Setenv("PLAY_TOKEN_TTL", "-1m")
	_, err = Load(noDotenv(t))
	assert.Error(t, err)
}

func TestLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, Config{LogLevel: "chatty"}.Level())
	assert.Equal(t, zerolog.WarnLevel, Config{LogLevel: "warn"}.Level())
}
