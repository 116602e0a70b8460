package exporter

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alicedata/internal/config"
	"alicedata/internal/errors"
	"alicedata/internal/files"
	"alicedata/internal/shared/testutil"
	"alicedata/pkg/contracts/domain"
)

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Metadata: domain.DatasetMetadata{
			GeneratedAt:    fixedTime,
			TotalRecords:   3,
			CountyRecords:  2,
			FilesProcessed: 2,
			Years:          []int{2021, 2022},
			DataSources:    []string{"Alabama.xlsx", "Georgia.xlsx"},
		},
		Records: sampleRecords(),
		Report: domain.AggregateReport{
			National:            domain.HouseholdTotals{TotalHouseholds: 4000, CountyCount: 2},
			ByState:             map[string]*domain.StateSummary{},
			ByYear:              map[int]domain.HouseholdTotals{},
			LevelCounts:         map[domain.GeoLevel]int{},
			HighestCombinedRate: []domain.GeoRecord{},
			LowestCombinedRate:  []domain.GeoRecord{},
		},
	}
}

func TestDatasetWriter_Write(t *testing.T) {
	tests := []struct {
		name        string
		withGeoJSON bool
	}{
		{name: "flat outputs only", withGeoJSON: false},
		{name: "with geojson", withGeoJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, paths := newTestManager(t)
			logger, handler := testutil.NewTestLogger(t)

			var geo *GeoJSONExporter
			if tt.withGeoJSON {
				geo = NewGeoJSONExporter(manager, nil, logger)
			}

			writer := NewDatasetWriter(paths, manager, geo, logger)
			require.NoError(t, writer.Write(context.Background(), sampleDataset()))

			assert.FileExists(t, paths.MasterCSVPath())
			assert.FileExists(t, paths.MasterJSONPath())
			assert.FileExists(t, paths.EnhancedJSONPath())
			assert.FileExists(t, paths.StatisticsJSONPath())

			if tt.withGeoJSON {
				assert.FileExists(t, paths.GeoJSONYearPath(2021))
				assert.FileExists(t, paths.GeoJSONYearPath(2022))
				assert.FileExists(t, paths.GeoJSONMasterPath())
			} else {
				assert.NoFileExists(t, paths.GeoJSONMasterPath())
			}

			testutil.AssertLogContains(t, handler, slog.LevelInfo, "Dataset written")
		})
	}
}

func TestDatasetWriter_Idempotent(t *testing.T) {
	manager, paths := newTestManager(t)
	writer := NewDatasetWriter(paths, manager, NewGeoJSONExporter(manager, nil, nil), nil)

	require.NoError(t, writer.Write(context.Background(), sampleDataset()))
	first, err := os.ReadFile(paths.EnhancedJSONPath())
	require.NoError(t, err)

	require.NoError(t, writer.Write(context.Background(), sampleDataset()))
	second, err := os.ReadFile(paths.EnhancedJSONPath())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDatasetWriter_StorageError(t *testing.T) {
	base := t.TempDir()
	// a regular file where the output directory should be
	blocker := filepath.Join(base, "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	paths := config.NewPaths(base, config.PathsConfig{OutputDir: "out"})
	manager := files.NewManager(paths, nil)
	writer := NewDatasetWriter(paths, manager, nil, nil)

	err := writer.Write(context.Background(), sampleDataset())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
}

func TestDatasetWriter_ContextCancelled(t *testing.T) {
	manager, paths := newTestManager(t)
	writer := NewDatasetWriter(paths, manager, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := writer.Write(ctx, sampleDataset())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, paths.MasterCSVPath())
}
