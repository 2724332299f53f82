// Command processor runs the picking-report pipeline in batch mode: it
// discovers report workbooks in a directory, builds the corpus, applies
// thresholds, aggregates the full period, and writes the result tables
// as CSV files. A worker table and a summary line go to stdout unless
// -quiet is set.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"pickpulse/internal/analytics"
	"pickpulse/internal/config"
	"pickpulse/internal/dataprocessing"
	"pickpulse/internal/exporter"
	"pickpulse/internal/files"
	"pickpulse/internal/infrastructure"
	"pickpulse/internal/settings"
	"pickpulse/pkg/contracts/domain"
)

var (
	summaryColor = color.New(color.FgGreen, color.Bold)
	emptyColor   = color.New(color.FgYellow)
)

// options carries the parsed command line. minutesSet and picksSet
// record whether the flags were passed explicitly, because an explicit
// flag overrides the settings file while the flag default does not.
type options struct {
	inDir        string
	outDir       string
	minutes      float64
	picks        int64
	minutesSet   bool
	picksSet     bool
	settingsPath string
	quiet        bool
	prefix       string
	sheetName    string
}

func main() {
	inDir := flag.String("in", "", "directory holding report workbooks (default: configured uploads directory)")
	outDir := flag.String("out", "", "directory for CSV output (default: configured exports directory)")
	minutes := flag.Float64("minutes", domain.DefaultMinuteThreshold, "ceiling on average per-pick minutes")
	picks := flag.Int64("picks", domain.DefaultPickCountThreshold, "floor on daily pick count")
	settingsPath := flag.String("settings", "", "thresholds JSON file; explicit -minutes/-picks override it")
	quiet := flag.Bool("quiet", false, "suppress the terminal table and summary")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		slog.Error("failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("failed to create directories", "error", err)
		os.Exit(1)
	}

	// Keep stdout clean for the table; the structured log goes to file.
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = filepath.Join(paths.LogsDir, "processor.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	opts := options{
		inDir:        *inDir,
		outDir:       *outDir,
		minutes:      *minutes,
		picks:        *picks,
		settingsPath: *settingsPath,
		quiet:        *quiet,
		prefix:       cfg.Analysis.ReportPrefix,
		sheetName:    cfg.Analysis.SheetName,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "minutes":
			opts.minutesSet = true
		case "picks":
			opts.picksSet = true
		}
	})
	if opts.inDir == "" {
		opts.inDir = paths.UploadsDir
	}
	if opts.outDir == "" {
		opts.outDir = paths.ExportsDir
	}

	if err := run(context.Background(), opts, logger, os.Stdout); err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "processing failed:", err)
		os.Exit(1)
	}
}

// run executes the batch pipeline end to end and prints the terminal
// report to out.
func run(ctx context.Context, opts options, logger *slog.Logger, out io.Writer) error {
	start := time.Now()

	th, err := resolveThresholds(ctx, opts, logger)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "batch processing started",
		slog.String("input_dir", opts.inDir),
		slog.String("output_dir", opts.outDir),
		slog.Float64("minute_threshold", th.MinuteThreshold),
		slog.Int64("picking_count_threshold", th.PickCountThreshold))

	discovery := files.NewDiscovery(opts.prefix, logger)
	batch, err := discovery.LoadReports(ctx, opts.inDir)
	if err != nil {
		return fmt.Errorf("failed to load reports from %s: %w", opts.inDir, err)
	}

	parser := dataprocessing.NewParser(logger, dataprocessing.ParserConfig{
		Prefix:    opts.prefix,
		SheetName: opts.sheetName,
	})
	builder := dataprocessing.NewBuilder(parser, logger, nil)
	corpus := builder.Build(ctx, batch)

	window := domain.AllWindow()
	filtered := analytics.ApplyThresholds(corpus, th)
	windowed := analytics.ApplyWindow(filtered, window)
	result := analytics.Aggregate(windowed, th, window)

	exp := exporter.NewResultExporter(opts.outDir, logger)
	written, err := exp.Export(ctx, result, corpus)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "batch processing finished",
		slog.Int("files_loaded", len(batch)),
		slog.Int("corpus_records", len(corpus.Records)),
		slog.Int64("total_picks", result.Summary.TotalPicks),
		slog.Duration("elapsed", time.Since(start)))

	if opts.quiet {
		return nil
	}
	return printReport(out, result, opts.outDir, len(written), time.Since(start))
}

// resolveThresholds layers the threshold sources: defaults, then the
// settings file when given, then explicit flags on top.
func resolveThresholds(ctx context.Context, opts options, logger *slog.Logger) (domain.Thresholds, error) {
	th := domain.DefaultThresholds()
	if opts.settingsPath != "" {
		th = settings.NewStore(opts.settingsPath, logger).Load(ctx)
	}
	if opts.minutesSet {
		th.MinuteThreshold = opts.minutes
	}
	if opts.picksSet {
		th.PickCountThreshold = opts.picks
	}
	if th.MinuteThreshold < 0 {
		return domain.Thresholds{}, fmt.Errorf("minute threshold must not be negative, got %v", th.MinuteThreshold)
	}
	if th.PickCountThreshold < 0 {
		return domain.Thresholds{}, fmt.Errorf("picking count threshold must not be negative, got %d", th.PickCountThreshold)
	}
	return th, nil
}

// printReport renders the worker table and the summary lines.
func printReport(out io.Writer, result domain.AnalysisResult, outDir string, fileCount int, elapsed time.Duration) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Worker", "AvgMin", "SpeedRank", "Picks", "CountRank", "Days", "Picks/Day", "DailyRank"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	rows := make([][]string, 0, len(result.Workers))
	for _, w := range result.Workers {
		rows = append(rows, []string{
			w.Worker,
			fmtFloat(w.AvgMinutes),
			fmtRank(w.DurationRank),
			strconv.FormatInt(w.TotalPicks, 10),
			fmtRank(w.CountRank),
			strconv.Itoa(w.DaysWorked),
			fmtFloat(w.DailyAvgPicks),
			fmtRank(w.DailyAvgRank),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := result.Summary
	if s.TotalPicks == 0 {
		emptyColor.Fprintln(out, "No records survived the thresholds.")
	} else {
		summaryColor.Fprintf(out, "%d picks by %d workers over %d days (%s ~ %s), avg %s min/pick\n",
			s.TotalPicks, len(result.Workers), s.Days, s.From, s.To, fmtFloat(s.AvgMinutes))
	}
	_, err := fmt.Fprintf(out, "Wrote %d CSV files to %s in %v\n", fileCount, outDir, elapsed.Round(time.Millisecond))
	return err
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func fmtRank(r int) string {
	if r == 0 {
		return "-"
	}
	return strconv.Itoa(r)
}
