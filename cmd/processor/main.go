package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"alicedata/internal/config"
	"alicedata/internal/dataprocessing"
	"alicedata/internal/errors"
	"alicedata/internal/exporter"
	"alicedata/internal/files"
	"alicedata/internal/infrastructure"
	"alicedata/internal/validation"
)

// cliOptions holds the command line flags. Empty values fall back to the config.
type cliOptions struct {
	configPath  string
	inDir       string
	outDir      string
	boundaries  string
	strict      bool
	generatedAt string
}

// sourceDateEpochEnv fixes the generation timestamp for reproducible builds
const sourceDateEpochEnv = "SOURCE_DATE_EPOCH"

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	clock, err := generationClock(opts.generatedAt, os.Getenv(sourceDateEpochEnv))
	if err != nil {
		logger.Error("Invalid generation timestamp", slog.String("error", err.Error()))
		os.Exit(2)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		logger.Error("Failed to initialize OpenTelemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	_, err = process(ctx, cfg, clock, logger, providers)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("OpenTelemetry shutdown failed", slog.String("error", shutdownErr.Error()))
	}
	cancel()

	code := exitCode(err)
	infrastructure.CloseLogFile()
	os.Exit(code)
}

func parseFlags(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions

	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file (defaults to config.yaml or configs/config.yaml)")
	fs.StringVar(&opts.inDir, "in", "", "input directory of state .xlsx workbooks (defaults to "+config.DefaultInputDir+")")
	fs.StringVar(&opts.outDir, "out", "", "output directory for the generated database (defaults to "+config.DefaultOutputDir+")")
	fs.StringVar(&opts.boundaries, "boundaries", "", "county boundary GeoJSON joined into the county layers")
	fs.BoolVar(&opts.strict, "strict", false, "drop records that fail validation")
	fs.StringVar(&opts.generatedAt, "generated-at", "", "RFC 3339 timestamp stamped on the outputs (defaults to $"+sourceDateEpochEnv+", then the current time)")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(output, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return cliOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// loadConfig loads the layered config and applies the flag overrides.
// Relative flag paths are taken from the working directory.
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{opts.inDir, &cfg.Paths.InputDir},
		{opts.outDir, &cfg.Paths.OutputDir},
		{opts.boundaries, &cfg.Paths.BoundariesFile},
	}
	for _, o := range overrides {
		if o.flag == "" {
			continue
		}
		abs, err := filepath.Abs(o.flag)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid path %q", o.flag), err)
		}
		*o.target = abs
	}

	if opts.strict {
		cfg.Pipeline.StrictValidation = true
	}
	return cfg, nil
}

// generationClock returns the clock that stamps generatedAt and the GeoJSON
// UPDATED property. An explicit timestamp wins over SOURCE_DATE_EPOCH (Unix
// seconds); with neither, the current time is used.
func generationClock(generatedAt, sourceDateEpoch string) (func() time.Time, error) {
	switch {
	case generatedAt != "":
		t, err := time.Parse(time.RFC3339, generatedAt)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid -generated-at %q", generatedAt), err)
		}
		t = t.UTC()
		return func() time.Time { return t }, nil
	case sourceDateEpoch != "":
		secs, err := strconv.ParseInt(sourceDateEpoch, 10, 64)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("invalid %s %q", sourceDateEpochEnv, sourceDateEpoch), err)
		}
		t := time.Unix(secs, 0).UTC()
		return func() time.Time { return t }, nil
	default:
		return time.Now, nil
	}
}

// process runs the pipeline over the input directory and writes every output.
// Nothing is written when the run produces no records.
func process(ctx context.Context, cfg *config.Config, clock func() time.Time, logger *slog.Logger, providers *infrastructure.OTelProviders) (dataprocessing.RunStats, error) {
	paths := cfg.GetPaths()
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	logger.InfoContext(ctx, "Starting ALICE processing",
		slog.String("version", config.AppVersion),
		slog.String("input_dir", paths.InputDir),
		slog.String("output_dir", paths.OutputDir),
		slog.String("boundaries_file", paths.BoundariesFile),
		slog.Bool("strict_validation", cfg.Pipeline.StrictValidation))

	fileValidator := validation.NewFileValidator(logger)
	count, err := fileValidator.ValidateInputDirectory(paths.InputDir)
	if err != nil {
		return dataprocessing.RunStats{}, errors.NewSourceReadError(paths.InputDir, err)
	}
	logger.InfoContext(ctx, "Input directory validated", slog.Int("workbooks", count))

	if paths.BoundariesFile != "" {
		if err := fileValidator.ValidateFile(paths.BoundariesFile); err != nil {
			return dataprocessing.RunStats{}, errors.NewConfigError("county boundaries file is not usable", err)
		}
	}

	pipelineOpts := []dataprocessing.PipelineOption{
		dataprocessing.WithTracer(providers.Tracer),
	}
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		logger.WarnContext(ctx, "Pipeline metrics unavailable", slog.String("error", err.Error()))
	} else {
		pipelineOpts = append(pipelineOpts, dataprocessing.WithMetrics(metrics))
	}
	if cfg.Pipeline.StrictValidation {
		pipelineOpts = append(pipelineOpts, dataprocessing.WithValidator(validation.New()))
	}

	pipeline := dataprocessing.NewPipeline(nil, logger, dataprocessing.Options{
		ExtremesSize:     cfg.Pipeline.ExtremesSize,
		StrictValidation: cfg.Pipeline.StrictValidation,
		Clock:            clock,
	}, pipelineOpts...)

	dataset, stats, err := pipeline.RunDir(ctx, paths.InputDir)
	if err != nil {
		return stats, err
	}

	if err := fileValidator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return stats, errors.NewStorageError("output directory is not writable", err)
	}

	var geojson *exporter.GeoJSONExporter
	manager := files.NewManager(paths, logger)
	if cfg.Pipeline.WriteGeoJSON {
		var boundaries exporter.Boundaries
		if paths.BoundariesFile != "" {
			boundaries, err = exporter.LoadBoundaries(paths.BoundariesFile)
			if err != nil {
				return stats, errors.NewConfigError("failed to load county boundaries", err)
			}
			logger.InfoContext(ctx, "County boundaries loaded",
				slog.String("file", paths.BoundariesFile),
				slog.Int("features", len(boundaries)))
		}
		geojson = exporter.NewGeoJSONExporter(manager, boundaries, logger)
	}

	writer := exporter.NewDatasetWriter(paths, manager, geojson, logger)
	if err := writer.Write(ctx, dataset); err != nil {
		return stats, err
	}

	logger.InfoContext(ctx, "Processing complete",
		slog.Int("records", len(dataset.Records)),
		slog.Int("files_processed", stats.FilesProcessed),
		slog.Int("files_failed", stats.FilesFailed),
		slog.Int("rows_dropped", stats.RowsDropped),
		slog.Int("rows_invalid", stats.RowsInvalid))

	return stats, nil
}

// exitCode maps a processing error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		slog.Warn("Processing interrupted")
		return 130
	case errors.IsType(err, errors.ErrTypeNoData):
		slog.Error("No records produced, nothing written", "error", err)
		return 1
	default:
		slog.Error("Processing failed", "error", err)
		return 1
	}
}
