package files

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pickpulse/internal/config"
	"pickpulse/pkg/contracts/domain"
)

// FileInfo describes one discovered report workbook.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds picking report workbooks in a directory.
type Discovery struct {
	prefix string
	logger *slog.Logger
}

// NewDiscovery creates a discovery instance. An empty prefix selects
// the standard report filename prefix.
func NewDiscovery(prefix string, logger *slog.Logger) *Discovery {
	if prefix == "" {
		prefix = config.ReportFilePrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{prefix: prefix, logger: logger}
}

// FindReports returns the report workbooks in dir, sorted by filename.
// The filename encodes the report date, so name order is date order.
// Excel lock files ("~$" prefix) and files without the report prefix or
// an .xlsx extension are ignored.
func (d *Discovery) FindReports(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !d.isReportName(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// LoadReports reads every discovered workbook into an upload batch. A
// file that disappears or fails to read between discovery and load is
// skipped with a warning; the rest of the batch survives.
func (d *Discovery) LoadReports(ctx context.Context, dir string) ([]domain.UploadedFile, error) {
	found, err := d.FindReports(dir)
	if err != nil {
		return nil, err
	}

	batch := make([]domain.UploadedFile, 0, len(found))
	for _, f := range found {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			d.logger.WarnContext(ctx, "skipping unreadable report file",
				slog.String("path", f.Path),
				slog.String("error", err.Error()))
			continue
		}
		batch = append(batch, domain.UploadedFile{Name: f.Name, Data: data})
	}

	d.logger.InfoContext(ctx, "report files loaded",
		slog.String("dir", dir),
		slog.Int("discovered", len(found)),
		slog.Int("loaded", len(batch)))
	return batch, nil
}

// isReportName reports whether a filename looks like a picking report:
// the report prefix, an .xlsx extension, and not an Excel lock file.
func (d *Discovery) isReportName(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	if !strings.HasPrefix(name, d.prefix) {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}
