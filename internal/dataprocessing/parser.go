package dataprocessing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pickpulse/internal/config"
	"pickpulse/pkg/contracts/domain"
)

// Skip reasons the corpus builder distinguishes from hard parse errors.
var (
	// ErrNotReportFile means the filename does not carry the report
	// prefix and a parseable date.
	ErrNotReportFile = errors.New("filename does not match the report pattern")

	// ErrSundayReport means the filename date falls on a Sunday. The
	// warehouse does not pick on Sundays; such files are operator
	// mistakes and contribute nothing.
	ErrSundayReport = errors.New("report is dated on a Sunday")
)

// hangulRe matches a single Hangul syllable. Worker names must contain
// at least one; rows with romanized or numeric "names" are headers,
// totals or test data.
var hangulRe = regexp.MustCompile(`[가-힣]`)

// perPickLayouts are the time-of-day forms the 1회평균분 cell appears
// in, most specific first. Cells that match none fall back to decimal
// minutes.
var perPickLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
}

// ReportResult is the parse output of a single workbook.
type ReportResult struct {
	// Date is the report date decoded from the filename.
	Date time.Time

	// Rows holds the accepted records. Calendar fields beyond Date are
	// filled by the corpus builder.
	Rows []domain.PickRecord

	// Sightings holds one entry per named row, including rows that were
	// later dropped.
	Sightings []domain.WorkerSighting

	// Dropped counts named rows rejected by validation.
	Dropped int
}

// ParserConfig holds the workbook conventions the parser expects.
// Zero values fall back to the application defaults.
type ParserConfig struct {
	Prefix     string
	SheetName  string
	HeaderRows int
}

// Parser reads daily picking-report workbooks.
type Parser struct {
	logger     *slog.Logger
	prefix     string
	sheetName  string
	headerRows int
}

// NewParser creates a report parser.
func NewParser(logger *slog.Logger, cfg ParserConfig) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Prefix == "" {
		cfg.Prefix = config.ReportFilePrefix
	}
	if cfg.SheetName == "" {
		cfg.SheetName = config.ReportSheetName
	}
	if cfg.HeaderRows <= 0 {
		cfg.HeaderRows = config.ReportHeaderRows
	}

	return &Parser{
		logger:     logger,
		prefix:     cfg.Prefix,
		sheetName:  cfg.SheetName,
		headerRows: cfg.HeaderRows,
	}
}

// DateFromName decodes the report date from a workbook filename. The
// date token sits between the fixed prefix and the first dot.
func (p *Parser) DateFromName(name string) (time.Time, error) {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, p.prefix) {
		return time.Time{}, fmt.Errorf("%s: %w", name, ErrNotReportFile)
	}

	token := strings.TrimPrefix(base, p.prefix)
	if i := strings.Index(token, "."); i >= 0 {
		token = token[:i]
	}

	date, err := time.Parse(config.ReportDateLayout, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, ErrNotReportFile)
	}
	return date, nil
}

// ParseReport reads one workbook and extracts its worker rows. A file
// that cannot be parsed returns an error and contributes nothing; it
// never aborts the surrounding batch. Panics inside the workbook
// library are recovered into errors.
func (p *Parser) ParseReport(ctx context.Context, file domain.UploadedFile) (result *ReportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic while parsing %s: %v", file.Name, r)
		}
	}()

	date, err := p.DateFromName(file.Name)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.WeekdayFromTime(date); !ok {
		return nil, fmt.Errorf("%s: %w", file.Name, ErrSundayReport)
	}

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", file.Name, err)
	}
	defer f.Close()

	rows, err := f.GetRows(p.sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q in %s: %w", p.sheetName, file.Name, err)
	}
	if len(rows) <= p.headerRows {
		return nil, fmt.Errorf("sheet %q in %s has no label row", p.sheetName, file.Name)
	}

	// The label row sits directly below the banner rows
	workerCol, picksCol, durationCol := -1, -1, -1
	for i, cell := range rows[p.headerRows] {
		switch strings.TrimSpace(cell) {
		case config.ColumnWorkerName:
			workerCol = i
		case config.ColumnPickCount:
			picksCol = i
		case config.ColumnAvgMinutes:
			durationCol = i
		}
	}
	if workerCol < 0 || picksCol < 0 || durationCol < 0 {
		return nil, fmt.Errorf("sheet %q in %s is missing required columns", p.sheetName, file.Name)
	}

	cellAt := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	result = &ReportResult{Date: date}

	for _, row := range rows[p.headerRows+1:] {
		worker := cellAt(row, workerCol)
		if worker == "" {
			// Blank names are padding rows, not workers; no sighting
			continue
		}

		// Sightings are recorded before any further validation so a
		// worker whose row is dropped still appears in the roster.
		result.Sightings = append(result.Sightings, domain.WorkerSighting{
			Date:   date,
			Worker: worker,
		})

		if !hangulRe.MatchString(worker) {
			result.Dropped++
			continue
		}

		picks, ok := coercePicks(cellAt(row, picksCol))
		if !ok {
			result.Dropped++
			continue
		}

		perPick, ok := parsePerPick(cellAt(row, durationCol))
		if !ok {
			result.Dropped++
			continue
		}

		result.Rows = append(result.Rows, domain.PickRecord{
			Date:       date,
			Worker:     worker,
			Picks:      picks,
			PerPick:    perPick,
			AvgMinutes: perPick.Minutes(),
		})
	}

	p.logger.DebugContext(ctx, "report parsed",
		slog.String("file", file.Name),
		slog.String("date", date.Format(config.DateDisplayLayout)),
		slog.Int("rows", len(result.Rows)),
		slog.Int("sightings", len(result.Sightings)),
		slog.Int("dropped", result.Dropped),
	)

	return result, nil
}

// coercePicks converts a pick-count cell to a non-negative integer.
// Thousands separators are tolerated; fractional counts truncate.
func coercePicks(cell string) (int64, bool) {
	s := strings.ReplaceAll(cell, ",", "")
	if s == "" {
		return 0, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, false
		}
		return n, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(f), true
}

// parsePerPick converts a per-pick duration cell. Excel renders the
// underlying time value as a time-of-day string, so those layouts are
// tried first; plain numbers are read as decimal minutes.
func parsePerPick(cell string) (time.Duration, bool) {
	if cell == "" {
		return 0, false
	}

	for _, layout := range perPickLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			d := time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second
			return d, true
		}
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Minute)), true
}
