package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, ReportFilePrefix, cfg.Analysis.ReportPrefix)
	assert.Equal(t, ReportSheetName, cfg.Analysis.SheetName)
	assert.Equal(t, "data/settings.json", cfg.Paths.SettingsFile)
	assert.True(t, cfg.Security.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "rejects zero port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "rejects out of range port",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "rejects empty report prefix",
			mutate:  func(c *Config) { c.Analysis.ReportPrefix = "" },
			wantErr: "report prefix",
		},
		{
			name:    "rejects empty sheet name",
			mutate:  func(c *Config) { c.Analysis.SheetName = "" },
			wantErr: "sheet name",
		},
		{
			name:    "rejects non-positive upload limit",
			mutate:  func(c *Config) { c.Analysis.MaxUploadBytes = 0 },
			wantErr: "max upload bytes",
		},
		{
			name:    "rejects missing origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMergeConfigs(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Server.ReadTimeout = 5 * time.Second
	fileCfg.Logging.Level = "debug"
	fileCfg.Analysis.ReportPrefix = "custom-prefix-"

	t.Run("file values fill gaps", func(t *testing.T) {
		envCfg := Config{}
		merged := mergeConfigs(fileCfg, envCfg)

		assert.Equal(t, 9090, merged.Server.Port)
		assert.Equal(t, 5*time.Second, merged.Server.ReadTimeout)
		assert.Equal(t, "debug", merged.Logging.Level)
		assert.Equal(t, "custom-prefix-", merged.Analysis.ReportPrefix)
	})

	t.Run("env values win", func(t *testing.T) {
		envCfg := Config{}
		envCfg.Server.Port = 8888
		envCfg.Logging.Level = "warn"
		merged := mergeConfigs(fileCfg, envCfg)

		assert.Equal(t, 8888, merged.Server.Port)
		assert.Equal(t, "warn", merged.Logging.Level)
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9191
logging:
  level: debug
analysis:
  sheet_name: "작업자현황"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "작업자현황", cfg.Analysis.SheetName)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := loadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "uploads"), paths.UploadsDir)
	assert.Equal(t, filepath.Join(base, "data", "settings.json"), paths.SettingsFile)

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.UploadsDir, paths.ExportsDir, paths.LogsDir} {
		info, statErr := os.Stat(dir)
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}
}

func TestResolvePathsKeepsAbsolute(t *testing.T) {
	abs := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Paths.SettingsFile = filepath.Join(abs, "settings.json")

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(abs, "settings.json"), paths.SettingsFile)
}
