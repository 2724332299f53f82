package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"pickpulse/internal/config"
	"pickpulse/pkg/contracts/domain"
)

// Output filenames inside the export directory.
const (
	WorkersFile  = "picking_workers.csv"
	TrendFile    = "picking_trend.csv"
	WeekdaysFile = "picking_weekdays.csv"
	DetailFile   = "picking_detail.csv"
	CorpusFile   = "picking_corpus.csv"
)

// ResultExporter writes every table of an analysis result, plus the
// underlying corpus rows, as CSV files.
type ResultExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewResultExporter creates an exporter writing into dir.
func NewResultExporter(dir string, logger *slog.Logger) *ResultExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultExporter{
		csvWriter: NewCSVWriter(dir, logger),
		logger:    logger,
	}
}

// Export writes all five CSV files and returns the filenames written.
func (e *ResultExporter) Export(ctx context.Context, result domain.AnalysisResult, corpus domain.Corpus) ([]string, error) {
	steps := []struct {
		name  string
		write func() error
	}{
		{WorkersFile, func() error { return e.ExportWorkers(result.Workers) }},
		{TrendFile, func() error { return e.ExportTrend(result.Trend) }},
		{WeekdaysFile, func() error { return e.ExportWeekdays(result.Weekdays) }},
		{DetailFile, func() error { return e.ExportDetail(result.Detail) }},
		{CorpusFile, func() error { return e.ExportCorpus(corpus) }},
	}

	written := make([]string, 0, len(steps))
	for _, step := range steps {
		if err := step.write(); err != nil {
			return written, fmt.Errorf("failed to export %s: %w", step.name, err)
		}
		written = append(written, step.name)
	}

	e.logger.InfoContext(ctx, "analysis results exported",
		slog.Int("file_count", len(written)),
		slog.Int("worker_rows", len(result.Workers)),
		slog.Int("detail_rows", len(result.Detail)),
		slog.Int("corpus_rows", len(corpus.Records)))
	return written, nil
}

// ExportWorkers writes the per-worker performance table.
func (e *ResultExporter) ExportWorkers(workers []domain.WorkerSummary) error {
	headers := []string{
		"Worker", "AvgMinutes", "DurationRank", "TotalPicks", "CountRank",
		"DaysWorked", "DailyAvgPicks", "DailyAvgRank",
	}
	records := make([][]string, 0, len(workers))
	for _, w := range workers {
		records = append(records, []string{
			w.Worker,
			formatFloat(w.AvgMinutes),
			formatRank(w.DurationRank),
			formatInt(w.TotalPicks),
			formatRank(w.CountRank),
			formatInt(int64(w.DaysWorked)),
			formatFloat(w.DailyAvgPicks),
			formatRank(w.DailyAvgRank),
		})
	}
	return e.csvWriter.WriteSimpleCSV(WorkersFile, headers, records)
}

// ExportTrend writes the per-period duration trend.
func (e *ResultExporter) ExportTrend(trend []domain.TrendPoint) error {
	headers := []string{"Period", "AvgMinutes"}
	records := make([][]string, 0, len(trend))
	for _, p := range trend {
		records = append(records, []string{p.Period, formatFloat(p.AvgMinutes)})
	}
	return e.csvWriter.WriteSimpleCSV(TrendFile, headers, records)
}

// ExportWeekdays writes the weekday performance table.
func (e *ResultExporter) ExportWeekdays(weekdays []domain.WeekdaySummary) error {
	headers := []string{
		"Weekday", "TotalPicks", "AvgMinutes", "DurationRank", "CountRank",
		"DaysWorked", "DailyAvgPicks",
	}
	records := make([][]string, 0, len(weekdays))
	for _, d := range weekdays {
		records = append(records, []string{
			d.Weekday.Label(),
			formatInt(d.TotalPicks),
			formatFloat(d.AvgMinutes),
			formatRank(d.DurationRank),
			formatRank(d.CountRank),
			formatInt(int64(d.DaysWorked)),
			formatFloat(d.DailyAvgPicks),
		})
	}
	return e.csvWriter.WriteSimpleCSV(WeekdaysFile, headers, records)
}

// ExportDetail writes the windowed per-record detail table.
func (e *ResultExporter) ExportDetail(detail []domain.DetailRow) error {
	headers := []string{
		"Date", "Weekday", "Worker", "Picks", "CountRank", "AvgMinutes",
		"DurationRank",
	}
	records := make([][]string, 0, len(detail))
	for _, row := range detail {
		records = append(records, []string{
			row.Date.Format(config.DateDisplayLayout),
			row.Weekday.Label(),
			row.Worker,
			formatInt(row.Picks),
			formatRank(row.CountRank),
			formatFloat(row.AvgMinutes),
			formatRank(row.DurationRank),
		})
	}
	return e.csvWriter.WriteSimpleCSV(DetailFile, headers, records)
}

// ExportCorpus streams the accepted records of the corpus, one CSV row
// per pick record. Batches can span months of reports, so rows are not
// staged in memory.
func (e *ResultExporter) ExportCorpus(corpus domain.Corpus) error {
	headers := []string{
		"Date", "Year", "Month", "Day", "YearMonth", "Weekday", "Worker",
		"Picks", "AvgMinutes",
	}

	stream, err := e.csvWriter.CreateStreamWriter(CorpusFile, headers)
	if err != nil {
		return err
	}

	for _, rec := range corpus.Records {
		row := []string{
			rec.Date.Format(config.DateDisplayLayout),
			formatInt(int64(rec.Year)),
			formatInt(int64(rec.Month)),
			formatInt(int64(rec.Day)),
			rec.YearMonth,
			rec.Weekday.Label(),
			rec.Worker,
			formatInt(rec.Picks),
			formatFloat(rec.AvgMinutes),
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write corpus row: %w", err)
		}
	}

	return stream.Close()
}
