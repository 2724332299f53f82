package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the fully resolved filesystem layout of a PickPulse
// installation. All relative entries in PathsConfig resolve against
// BaseDir, so a single directory can be moved wholesale.
type Paths struct {
	BaseDir      string
	DataDir      string
	UploadsDir   string
	ExportsDir   string
	LogsDir      string
	SettingsFile string
}

// ResolvePaths turns the configured (possibly relative) path entries
// into absolute paths.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		base = "."
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir %q: %w", base, err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(absBase, p)
	}

	return &Paths{
		BaseDir:      absBase,
		DataDir:      resolve(c.Paths.DataDir),
		UploadsDir:   resolve(c.Paths.UploadsDir),
		ExportsDir:   resolve(c.Paths.ExportsDir),
		LogsDir:      resolve(c.Paths.LogsDir),
		SettingsFile: resolve(c.Paths.SettingsFile),
	}, nil
}

// EnsureDirectories creates every directory the application writes to.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.UploadsDir, p.ExportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution records the resolved layout at startup for
// debugging relocated installs.
func (p *Paths) LogPathResolution() {
	slog.Info("resolved application paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("uploads_dir", p.UploadsDir),
		slog.String("exports_dir", p.ExportsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("settings_file", p.SettingsFile))
}
