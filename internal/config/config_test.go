package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"COLLAB_URL", "COLLAB_ROOM", "COLLAB_TOKEN", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	require.Equal(t, "redis://localhost:6379", cfg.CollabURL)
	require.Equal(t, "chatroom", cfg.CollabRoom)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_DotenvAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("COLLAB_URL=ws://chat.example:8080/collab\nCOLLAB_ROOM=from-file\n"), 0o600))

	t.Setenv("COLLAB_URL", "")
	os.Unsetenv("COLLAB_URL")
	t.Setenv("COLLAB_ROOM", "from-env")

	cfg, err := Load(path)

	require.NoError(t, err)
	require.Equal(t, "ws://chat.example:8080/collab", cfg.CollabURL)
	require.Equal(t, "from-env", cfg.CollabRoom)
}

func TestConfig_Logger(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFile: filepath.Join(t.TempDir(), "chat.log")}
	log, closer, err := cfg.Logger()
	require.NoError(t, err)
	log.Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")

	_, _, err = (&Config{LogLevel: "loud", LogFile: "-"}).Logger()
	require.Error(t, err)
}
