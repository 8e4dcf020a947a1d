package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espalier-dev/espalier/pkg/adapters/memory"
	"github.com/espalier-dev/espalier/pkg/adapters/redis"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "espalier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewPipeline(t *testing.T) {
	t.Run("builds pipeline from settings file", func(t *testing.T) {
		path := writeSettings(t, "path_articy_json: export.json\npath_target_dir: game/generated\n")

		pipe, set, logger, err := NewPipeline(RunOptions{SettingsPath: path})
		require.NoError(t, err)
		require.NotNil(t, pipe)
		require.NotNil(t, logger)
		assert.Equal(t, "export.json", set.PathArticyJSON)
		assert.Equal(t, "export.json", pipe.Source())
	})

	t.Run("defaults to in-memory run history", func(t *testing.T) {
		path := writeSettings(t, "path_articy_json: export.json\npath_target_dir: game/generated\n")

		pipe, _, _, err := NewPipeline(RunOptions{SettingsPath: path})
		require.NoError(t, err)
		assert.IsType(t, &memory.Recorder{}, pipe.Recorder())
	})

	t.Run("uses redis run history when configured", func(t *testing.T) {
		t.Setenv("ESPALIER_REDIS_ADDR", "localhost:6379")
		path := writeSettings(t, "path_articy_json: export.json\npath_target_dir: game/generated\n")

		pipe, _, _, err := NewPipeline(RunOptions{SettingsPath: path})
		require.NoError(t, err)
		assert.IsType(t, &redis.Recorder{}, pipe.Recorder())
	})

	t.Run("missing settings file", func(t *testing.T) {
		_, _, _, err := NewPipeline(RunOptions{SettingsPath: filepath.Join(t.TempDir(), "absent.yaml")})
		assert.Error(t, err)
	})

	t.Run("missing required keys", func(t *testing.T) {
		path := writeSettings(t, "path_articy_json: export.json\n")

		_, _, _, err := NewPipeline(RunOptions{SettingsPath: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path_target_dir")
	})
}
