package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides_API(t *testing.T) {
	t.Run("LAUNCHDECK_API_URL overrides base URL", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_API_URL", "http://env-host:7000")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://env-host:7000", cfg.API.BaseURL)
	})

	t.Run("LAUNCHDECK_API_TOKEN sets the bearer token", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_API_TOKEN", "tkn-env")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "tkn-env", cfg.API.Token)
	})

	t.Run("LAUNCHDECK_API_TIMEOUT overrides timeout", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_API_TIMEOUT", "5s")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "5s", cfg.API.Timeout)
	})

	t.Run("empty value does not override", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_API_URL", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
	})
}

func TestEnvOverrides_UIAndExport(t *testing.T) {
	t.Run("LAUNCHDECK_THEME overrides theme", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_THEME", "light")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "light", cfg.UI.Theme)
	})

	t.Run("LAUNCHDECK_EXPORT_DIR overrides export dir", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_EXPORT_DIR", "/data/exports")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/data/exports", cfg.Export.Dir)
		assert.Equal(t, "/data/exports", cfg.ExportDir())
	})
}

func TestEnvOverrides_Logging(t *testing.T) {
	t.Run("LAUNCHDECK_LOG_LEVEL overrides level", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("LAUNCHDECK_LOG_ENABLED accepts 1 and true", func(t *testing.T) {
		for _, v := range []string{"1", "true"} {
			t.Setenv("LAUNCHDECK_LOG_ENABLED", v)

			cfg := DefaultConfig()
			cfg.applyEnvOverrides()

			assert.True(t, cfg.Logging.Enabled, "value %q should enable logging", v)
		}
	})

	t.Run("LAUNCHDECK_LOG_ENABLED accepts 0 and false", func(t *testing.T) {
		for _, v := range []string{"0", "false"} {
			t.Setenv("LAUNCHDECK_LOG_ENABLED", v)

			cfg := DefaultConfig()
			cfg.Logging.Enabled = true
			cfg.applyEnvOverrides()

			assert.False(t, cfg.Logging.Enabled, "value %q should disable logging", v)
		}
	})

	t.Run("unrecognized LAUNCHDECK_LOG_ENABLED leaves setting alone", func(t *testing.T) {
		t.Setenv("LAUNCHDECK_LOG_ENABLED", "maybe")

		cfg := DefaultConfig()
		cfg.Logging.Enabled = true
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Logging.Enabled)
	})
}

func TestEnvOverrides_ApplyOnTopOfFile(t *testing.T) {
	t.Setenv("LAUNCHDECK_API_URL", "http://env-wins:6000")
	t.Setenv("LAUNCHDECK_API_TOKEN", "")
	t.Setenv("LAUNCHDECK_THEME", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	fileCfg := "api:\n  base_url: http://file-says:5000\n  token: tkn-file\n"
	require.NoError(t, os.WriteFile(path, []byte(fileCfg), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env-wins:6000", cfg.API.BaseURL, "env should beat file")
	assert.Equal(t, "tkn-file", cfg.API.Token, "file value survives when env is empty")
}

func TestEnvOverrides_ApplyToMissingFile(t *testing.T) {
	t.Setenv("LAUNCHDECK_API_URL", "http://env-only:4000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://env-only:4000", cfg.API.BaseURL)
}
