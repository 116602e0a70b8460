package exporter

import (
	"context"
	"log/slog"

	"alicedata/internal/config"
	"alicedata/internal/errors"
	"alicedata/internal/files"
	"alicedata/pkg/contracts/domain"
)

// DatasetWriter writes every output of a pipeline run into the output layout
type DatasetWriter struct {
	paths     *config.Paths
	records   *RecordExporter
	aggregate *AggregateExporter
	geojson   *GeoJSONExporter
	logger    *slog.Logger
}

// NewDatasetWriter creates a writer. A nil geojson exporter skips the GeoJSON outputs.
func NewDatasetWriter(paths *config.Paths, manager *files.Manager, geojson *GeoJSONExporter, logger *slog.Logger) *DatasetWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetWriter{
		paths:     paths,
		records:   NewRecordExporter(manager),
		aggregate: NewAggregateExporter(manager),
		geojson:   geojson,
		logger:    logger.With(slog.String("component", "dataset_writer")),
	}
}

// Write stores the dataset. Any failure is a STORAGE AppError naming the file.
func (w *DatasetWriter) Write(ctx context.Context, dataset *domain.Dataset) error {
	if err := w.paths.EnsureOutputDirectories(); err != nil {
		return errors.NewStorageError("failed to create output directories", err)
	}

	steps := []struct {
		path  string
		write func() error
	}{
		{w.paths.MasterCSVPath(), func() error {
			return w.records.WriteCSV(w.paths.MasterCSVPath(), dataset.Records)
		}},
		{w.paths.MasterJSONPath(), func() error {
			return w.records.WriteJSON(w.paths.MasterJSONPath(), dataset.Records)
		}},
		{w.paths.EnhancedJSONPath(), func() error {
			return w.records.WriteEnhancedJSON(w.paths.EnhancedJSONPath(), dataset.Metadata, dataset.Records)
		}},
		{w.paths.StatisticsJSONPath(), func() error {
			return w.aggregate.WriteJSON(w.paths.StatisticsJSONPath(), dataset.Report)
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.write(); err != nil {
			return errors.NewStorageError("failed to write output", err).WithContext("file", step.path)
		}
	}

	if w.geojson != nil {
		years, err := w.geojson.WriteAll(dataset.Records, dataset.Metadata.GeneratedAt,
			w.paths.GeoJSONYearPath, w.paths.GeoJSONMasterPath())
		if err != nil {
			return errors.NewStorageError("failed to write geojson", err).WithContext("file", w.paths.GeoJSONDir)
		}
		w.logger.InfoContext(ctx, "GeoJSON written", slog.Any("years", years))
	}

	w.logger.InfoContext(ctx, "Dataset written",
		slog.String("output_dir", w.paths.OutputDir),
		slog.Int("records", len(dataset.Records)))
	return nil
}
