package dataprocessing

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"pickpulse/internal/config"
	"pickpulse/internal/infrastructure"
	"pickpulse/pkg/contracts/domain"
)

// Builder assembles the analysis corpus from an upload batch. Files are
// parsed in input order; a file that fails to parse is skipped and
// logged, never fatal. The resulting corpus carries fully derived
// calendar fields and a deduplicated, deterministically sorted sighting
// roster.
type Builder struct {
	parser  *Parser
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewBuilder creates a corpus builder. metrics may be nil; the batch
// CLI runs without an exporter.
func NewBuilder(parser *Parser, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		parser:  parser,
		logger:  logger,
		metrics: metrics,
	}
}

// Build parses every file of the batch and concatenates the results.
// An empty batch, or a batch where every file was skipped, yields an
// empty corpus; emptiness propagates, it does not error.
func (b *Builder) Build(ctx context.Context, files []domain.UploadedFile) domain.Corpus {
	var corpus domain.Corpus
	parsed, skipped := 0, 0

	for _, file := range files {
		start := time.Now()
		result, err := b.parser.ParseReport(ctx, file)
		b.recordParseDuration(ctx, time.Since(start))

		if err != nil {
			skipped++
			b.recordSkip(ctx, err)
			switch {
			case errors.Is(err, ErrNotReportFile), errors.Is(err, ErrSundayReport):
				b.logger.DebugContext(ctx, "report skipped",
					slog.String("file", file.Name),
					slog.String("reason", err.Error()),
				)
			default:
				b.logger.WarnContext(ctx, "report skipped",
					slog.String("file", file.Name),
					slog.String("error", err.Error()),
				)
			}
			continue
		}

		parsed++
		b.recordParsed(ctx, result)

		for _, row := range result.Rows {
			corpus.Records = append(corpus.Records, enrich(row))
		}
		corpus.Sightings = append(corpus.Sightings, result.Sightings...)
	}

	corpus.Sightings = dedupeSightings(corpus.Sightings)

	b.logger.InfoContext(ctx, "corpus built",
		slog.Int("files", len(files)),
		slog.Int("parsed", parsed),
		slog.Int("skipped", skipped),
		slog.Int("records", len(corpus.Records)),
		slog.Int("sightings", len(corpus.Sightings)),
	)

	return corpus
}

// enrich derives the calendar fields of a record from its date. Done
// exactly once here so downstream grouping never re-parses dates.
func enrich(rec domain.PickRecord) domain.PickRecord {
	rec.Year, rec.Month, rec.Day = rec.Date.Year(), int(rec.Date.Month()), rec.Date.Day()
	rec.YearMonth = rec.Date.Format(config.MonthDisplayLayout)
	// Sunday-dated files never reach here, the parser skips them
	rec.Weekday, _ = domain.WeekdayFromTime(rec.Date)
	return rec
}

// dedupeSightings collapses duplicate (date, worker) pairs and sorts
// the roster by date, then worker name.
func dedupeSightings(sightings []domain.WorkerSighting) []domain.WorkerSighting {
	if len(sightings) == 0 {
		return nil
	}

	seen := make(map[domain.WorkerSighting]struct{}, len(sightings))
	out := make([]domain.WorkerSighting, 0, len(sightings))
	for _, s := range sightings {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Worker < out[j].Worker
	})

	return out
}

func (b *Builder) recordParseDuration(ctx context.Context, d time.Duration) {
	if b.metrics == nil {
		return
	}
	b.metrics.ParseDuration.Record(ctx, d.Seconds())
}

func (b *Builder) recordSkip(ctx context.Context, err error) {
	if b.metrics == nil {
		return
	}
	reason := "error"
	switch {
	case errors.Is(err, ErrNotReportFile):
		reason = "not_report"
	case errors.Is(err, ErrSundayReport):
		reason = "sunday"
	}
	b.metrics.ReportsSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (b *Builder) recordParsed(ctx context.Context, result *ReportResult) {
	if b.metrics == nil {
		return
	}
	b.metrics.ReportsParsed.Add(ctx, 1)
	b.metrics.RecordsBuilt.Add(ctx, int64(len(result.Rows)))
	if result.Dropped > 0 {
		b.metrics.RowsDropped.Add(ctx, int64(result.Dropped))
	}
}
