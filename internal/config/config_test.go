package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotitanic/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TITANIC_DATA_DIR", "TITANIC_MODE", "TITANIC_MAX_ITER", "TITANIC_PREVIEW_ROWS", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "src/data", cfg.Data.Dir)
	assert.Equal(t, "check", cfg.Run.Mode)
	assert.Equal(t, 1000, cfg.Model.MaxIter)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	file := filepath.Join(dir, "titanic.yaml")
	require.NoError(t, os.WriteFile(file, []byte("data:\n  dir: /from/yaml\nmodel:\n  max_iter: 50\nrun:\n  mode: summary\n"), 0o644))

	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("TITANIC_MAX_ITER=75\n"), 0o644))
	t.Setenv("TITANIC_MODE", "train")

	cfg, err := Load(file, dotenv)
	require.NoError(t, err)
	assert.Equal(t, "/from/yaml", cfg.Data.Dir, "yaml overrides defaults")
	assert.Equal(t, 75, cfg.Model.MaxIter, "dotenv overrides yaml")
	assert.Equal(t, "train", cfg.Run.Mode, "process env overrides yaml")
	assert.Equal(t, DefaultPreviewRows, cfg.Run.PreviewRows)
}

func TestLoad_MissingDotenvIsSkipped(t *testing.T) {
	clearEnv(t)
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("model: [unterminated"), 0o644))
	_, err = Load(bad)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	t.Setenv("TITANIC_MAX_ITER", "lots")
	_, err = Load("")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"every mode", func(c *Config) { c.Run.Mode = ModeAll }, true},
		{"unknown mode", func(c *Config) { c.Run.Mode = "serve" }, false},
		{"zero max iter", func(c *Config) { c.Model.MaxIter = 0 }, false},
		{"negative preview", func(c *Config) { c.Run.PreviewRows = -1 }, false},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
