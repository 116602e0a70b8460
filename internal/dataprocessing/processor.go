package dataprocessing

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"alicedata/internal/errors"
	"alicedata/internal/files"
	"alicedata/internal/infrastructure"
	"alicedata/internal/workbook"
	"alicedata/pkg/contracts/domain"
)

// Pipeline turns a directory of state workbooks into a Dataset. Files are
// processed one at a time in name order and aggregation runs once the full
// record collection is materialized.
type Pipeline struct {
	reader    WorkbookReader
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.PipelineMetrics
	validator RecordValidator
	opts      Options
}

// PipelineOption customizes a Pipeline
type PipelineOption func(*Pipeline)

// WithTracer sets the tracer used for run, workbook and aggregation spans
func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) { p.tracer = tracer }
}

// WithMetrics records run counters on the given instruments
func WithMetrics(metrics *infrastructure.PipelineMetrics) PipelineOption {
	return func(p *Pipeline) { p.metrics = metrics }
}

// WithValidator sets the validator used when StrictValidation is on
func WithValidator(v RecordValidator) PipelineOption {
	return func(p *Pipeline) { p.validator = v }
}

// NewPipeline creates a pipeline. A nil reader uses the excelize reader.
func NewPipeline(reader WorkbookReader, logger *slog.Logger, opts Options, options ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if reader == nil {
		reader = workbook.NewReader(logger)
	}
	if opts.ExtremesSize < 1 {
		opts.ExtremesSize = DefaultExtremesSize
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	p := &Pipeline{
		reader: reader,
		logger: logger.With(slog.String("component", "pipeline")),
		tracer: otel.Tracer(infrastructure.TracerName),
		opts:   opts,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// RunDir discovers the workbooks in inputDir and runs the pipeline over them
func (p *Pipeline) RunDir(ctx context.Context, inputDir string) (*domain.Dataset, RunStats, error) {
	found, err := files.NewDiscovery("").FindWorkbooks(inputDir)
	if err != nil {
		return nil, RunStats{}, errors.NewSourceReadError(inputDir, err)
	}

	p.logger.InfoContext(ctx, "Discovered workbooks",
		slog.String("input_dir", inputDir),
		slog.Int("count", len(found)))

	dataset, stats, err := p.Run(ctx, files.Paths(found))
	if errors.IsType(err, errors.ErrTypeNoData) {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			appErr.WithContext("input_dir", inputDir)
		}
	}
	return dataset, stats, err
}

// Run reads every file in order. A file that cannot be read is logged and
// skipped. Zero records overall is a NO_DATA error and no dataset is returned.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*domain.Dataset, RunStats, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.Int("pipeline.files", len(paths))))
	defer span.End()

	var (
		stats   RunStats
		records []domain.GeoRecord
	)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, stats, err
		}

		fileRecords, fs := p.ProcessFile(ctx, path)
		stats.add(fs)
		p.recordFileMetrics(ctx, fs)

		if fs.Err != nil {
			p.logger.WarnContext(ctx, "Skipping unreadable workbook",
				slog.String("file", path),
				slog.String("error", fs.Err.Error()))
			continue
		}
		records = append(records, fileRecords...)
	}

	if len(records) == 0 {
		err := errors.NewNoDataError("", len(paths))
		infrastructure.RecordError(ctx, err)
		return nil, stats, err
	}

	report := p.aggregate(ctx, records)

	dataset := &domain.Dataset{
		Metadata: p.metadata(records, report, stats),
		Records:  records,
		Report:   report,
	}

	if p.metrics != nil {
		p.metrics.RecordsProduced.Add(ctx, int64(len(records)))
		p.metrics.RunDuration.Record(ctx, time.Since(start).Seconds())
	}

	span.SetAttributes(attribute.Int("pipeline.records", len(records)))
	p.logger.InfoContext(ctx, "Pipeline run complete",
		slog.Int("records", len(records)),
		slog.Int("county_records", dataset.Metadata.CountyRecords),
		slog.Int("files_processed", stats.FilesProcessed),
		slog.Int("files_failed", stats.FilesFailed),
		slog.Int("rows_dropped", stats.RowsDropped),
		slog.Duration("duration", time.Since(start)))

	return dataset, stats, nil
}

// ProcessFile reads the County then Subcounty sheet of one workbook. Rows
// without an identifier are dropped and counted. A read failure is returned
// in FileStats.Err with no records.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) ([]domain.GeoRecord, FileStats) {
	ctx, span := p.tracer.Start(ctx, "pipeline.workbook",
		trace.WithAttributes(attribute.String("workbook.file", filepath.Base(path))))
	defer span.End()

	fs := FileStats{File: path}

	wb, err := p.reader.Read(path)
	if err != nil {
		if !errors.IsType(err, errors.ErrTypeSourceRead) {
			err = errors.NewSourceReadError(path, err)
		}
		fs.Err = err
		infrastructure.RecordError(ctx, err)
		return nil, fs
	}

	source := filepath.Base(path)
	var records []domain.GeoRecord

	for _, kind := range domain.SheetKinds {
		rows := wb.Rows(kind)
		if rows == nil {
			p.logger.DebugContext(ctx, "Sheet not present",
				slog.String("file", path),
				slog.String("sheet", string(kind)))
			continue
		}

		for _, raw := range rows {
			fs.RowsRead++

			row, ok := workbook.Decode(kind, raw)
			if !ok {
				continue
			}

			record, ok := Normalize(row)
			if !ok {
				fs.RowsDropped++
				continue
			}
			record.SourceFile = source

			if p.opts.StrictValidation && p.validator != nil {
				if err := p.validator.ValidateRecord(record); err != nil {
					fs.RowsInvalid++
					p.logger.WarnContext(ctx, "Dropping invalid record",
						slog.String("file", path),
						slog.String("sheet", raw.Sheet),
						slog.Int("row", raw.Row),
						slog.String("error", err.Error()))
					continue
				}
			}

			records = append(records, record)
		}
	}

	fs.Records = len(records)
	span.SetAttributes(
		attribute.Int("workbook.rows", fs.RowsRead),
		attribute.Int("workbook.records", fs.Records))

	p.logger.InfoContext(ctx, "Processed workbook",
		slog.String("file", path),
		slog.Int("rows", fs.RowsRead),
		slog.Int("records", fs.Records),
		slog.Int("dropped", fs.RowsDropped))

	return records, fs
}

func (p *Pipeline) aggregate(ctx context.Context, records []domain.GeoRecord) domain.AggregateReport {
	_, span := p.tracer.Start(ctx, "pipeline.aggregate",
		trace.WithAttributes(attribute.Int("aggregate.records", len(records))))
	defer span.End()

	return AggregateN(records, p.opts.ExtremesSize)
}

func (p *Pipeline) metadata(records []domain.GeoRecord, report domain.AggregateReport, stats RunStats) domain.DatasetMetadata {
	var (
		years   []int
		sources []string
	)
	for _, r := range records {
		if !slices.Contains(years, r.Year) {
			years = append(years, r.Year)
		}
		if !slices.Contains(sources, r.SourceFile) {
			sources = append(sources, r.SourceFile)
		}
	}
	slices.Sort(years)
	slices.Sort(sources)

	return domain.DatasetMetadata{
		GeneratedAt:    p.opts.Clock().UTC(),
		TotalRecords:   len(records),
		CountyRecords:  report.LevelCounts[domain.GeoLevelCounty],
		FilesProcessed: stats.FilesProcessed,
		FilesFailed:    stats.FilesFailed,
		Years:          years,
		DataSources:    sources,
	}
}

func (p *Pipeline) recordFileMetrics(ctx context.Context, fs FileStats) {
	if p.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("file", filepath.Base(fs.File)))
	if fs.Err != nil {
		p.metrics.FilesFailed.Add(ctx, 1, attrs)
		return
	}
	p.metrics.FilesProcessed.Add(ctx, 1, attrs)
	p.metrics.RowsRead.Add(ctx, int64(fs.RowsRead), attrs)
	p.metrics.RowsDropped.Add(ctx, int64(fs.RowsDropped), attrs)
}
