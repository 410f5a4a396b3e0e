package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Applies defaults to a minimal file", func(t *testing.T) {
		// Given: a config file with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)

		// Then: every other field has its default
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.SocketPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 6, conf.Rooms.CodeLength)
		assert.Equal(t, 10*time.Minute, conf.Rooms.FinishedTTL)
		assert.Equal(t, 50, conf.MatchHistory.RecentLimit)
		assert.Equal(t, 54*time.Second, conf.WebSocket.PingPeriod)
		assert.Equal(t, []string{"*"}, conf.CORS.AllowedOrigins)
		assert.Equal(t, "errorlog", conf.Diagnostics.Dir)
		assert.Equal(t, 64, conf.Diagnostics.Queue)
	})

	t.Run("Reads nested sections", func(t *testing.T) {
		path := writeConfig(t, `
redis:
  host: cache
  port: "6380"
rooms:
  finished-ttl: 30m
websocket:
  send-buffer: 8
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 30*time.Minute, conf.Rooms.FinishedTTL)
		assert.Equal(t, 8, conf.WebSocket.SendBuffer)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		t.Setenv("SOCKET_PORT", "7070")
		path := writeConfig(t, "socket-port: \"8081\"\n")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.SocketPort)
	})

	t.Run("MustLoad panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
		})
	})
}
