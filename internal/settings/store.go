// Package settings persists operator-tunable analysis thresholds as a
// small JSON file. The store never fails a Load: anything short of a
// well-formed, complete settings file falls back to the documented
// defaults so the pipeline always has usable thresholds.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pickpulse/pkg/contracts/domain"
)

// Store reads and writes threshold settings at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a settings store for the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the file path the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// settingsFile mirrors the on-disk document. Pointer fields let Load
// distinguish an absent key from an explicit zero.
type settingsFile struct {
	MinuteThreshold    *float64 `json:"minute_threshold"`
	PickCountThreshold *int64   `json:"picking_count_threshold"`
}

// Load reads thresholds from disk. A missing, unreadable, malformed,
// incomplete, or out-of-range file yields the defaults with a warning
// rather than an error.
func (s *Store) Load(ctx context.Context) domain.Thresholds {
	defaults := domain.DefaultThresholds()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.InfoContext(ctx, "settings file not found, using defaults",
				slog.String("path", s.path))
		} else {
			s.logger.WarnContext(ctx, "settings file unreadable, using defaults",
				slog.String("path", s.path),
				slog.String("error", err.Error()))
		}
		return defaults
	}

	var doc settingsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.WarnContext(ctx, "settings file malformed, using defaults",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return defaults
	}

	if doc.MinuteThreshold == nil || doc.PickCountThreshold == nil {
		s.logger.WarnContext(ctx, "settings file incomplete, using defaults",
			slog.String("path", s.path),
			slog.Bool("has_minute_threshold", doc.MinuteThreshold != nil),
			slog.Bool("has_picking_count_threshold", doc.PickCountThreshold != nil))
		return defaults
	}

	th := domain.Thresholds{
		MinuteThreshold:    *doc.MinuteThreshold,
		PickCountThreshold: *doc.PickCountThreshold,
	}
	if th.MinuteThreshold < 0 || th.PickCountThreshold < 0 {
		s.logger.WarnContext(ctx, "settings file has negative thresholds, using defaults",
			slog.String("path", s.path),
			slog.Float64("minute_threshold", th.MinuteThreshold),
			slog.Int64("picking_count_threshold", th.PickCountThreshold))
		return defaults
	}

	s.logger.DebugContext(ctx, "settings loaded",
		slog.String("path", s.path),
		slog.Float64("minute_threshold", th.MinuteThreshold),
		slog.Int64("picking_count_threshold", th.PickCountThreshold))
	return th
}

// Save writes the thresholds to disk, replacing the whole file.
func (s *Store) Save(ctx context.Context, th domain.Thresholds) error {
	doc := settingsFile{
		MinuteThreshold:    &th.MinuteThreshold,
		PickCountThreshold: &th.PickCountThreshold,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	s.logger.InfoContext(ctx, "settings saved",
		slog.String("path", s.path),
		slog.Float64("minute_threshold", th.MinuteThreshold),
		slog.Int64("picking_count_threshold", th.PickCountThreshold))
	return nil
}
